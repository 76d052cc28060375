package usecase_test

import (
	"context"
	stderrors "errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/ev-spark-hub/internal/pkg/errors"
	"github.com/ev-spark-hub/internal/usecase"
)

func newRewards() (*usecase.RewardsUseCase, *memoryLedgerRepository) {
	repo := newMemoryLedgerRepository()
	return usecase.NewRewardsUseCase(repo, 100, zap.NewNop()), repo
}

func TestRewardsUseCase_FirstTimeUser(t *testing.T) {
	uc, _ := newRewards()
	ctx := context.Background()

	balance, err := uc.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	ledger, err := uc.History(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, ledger.History, 1)
	assert.Equal(t, "Welcome bonus", ledger.History[0].Description)
	assert.Equal(t, int64(100), ledger.History[0].Amount)
	assert.Equal(t, domain.LedgerEarned, ledger.History[0].Type)
}

func TestRewardsUseCase_EmptyUserIsGuest(t *testing.T) {
	uc, repo := newRewards()
	ctx := context.Background()

	_, err := uc.AddCoins(ctx, "", 5, "")
	require.NoError(t, err)

	guest, err := repo.Load(ctx, domain.GuestUserID)
	require.NoError(t, err)
	require.NotNil(t, guest)
	assert.Equal(t, int64(105), guest.Balance)
	assert.Equal(t, "Coins earned", guest.History[0].Description)
}

func TestRewardsUseCase_EarnThenOverspend(t *testing.T) {
	uc, _ := newRewards()
	ctx := context.Background()

	balance, err := uc.AddCoins(ctx, "user-1", 50, "Referral")
	require.NoError(t, err)
	assert.Equal(t, int64(150), balance)

	ok, balance, err := uc.UseCoins(ctx, "user-1", 200, "Free charge")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(150), balance)

	ledger, err := uc.History(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(150), ledger.Balance)
	// Welcome bonus + Referral, failed spend leaves no trace
	require.Len(t, ledger.History, 2)
	assert.Equal(t, "Referral", ledger.History[0].Description)
	assert.Equal(t, "Welcome bonus", ledger.History[1].Description)
}

func TestRewardsUseCase_AddThenUseRestoresBalance(t *testing.T) {
	for _, amount := range []int64{1, 7, 100, 12345} {
		uc, _ := newRewards()
		ctx := context.Background()

		before, err := uc.History(ctx, "user-1")
		require.NoError(t, err)

		_, err = uc.AddCoins(ctx, "user-1", amount, "")
		require.NoError(t, err)
		ok, _, err := uc.UseCoins(ctx, "user-1", amount, "")
		require.NoError(t, err)
		require.True(t, ok)

		after, err := uc.History(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, before.Balance, after.Balance)
		assert.Len(t, after.History, len(before.History)+2)
		assert.Equal(t, -amount, after.History[0].Amount)
		assert.Equal(t, domain.LedgerSpent, after.History[0].Type)
		assert.Equal(t, "Coins spent", after.History[0].Description)
	}
}

func TestRewardsUseCase_BalanceEqualsHistorySum(t *testing.T) {
	uc, _ := newRewards()
	ctx := context.Background()

	ops := []struct {
		earn   bool
		amount int64
	}{
		{true, 20}, {false, 50}, {false, 500}, {true, 3}, {false, 73}, {false, 1},
	}
	for _, op := range ops {
		if op.earn {
			_, err := uc.AddCoins(ctx, "u", op.amount, "")
			require.NoError(t, err)
		} else {
			_, _, err := uc.UseCoins(ctx, "u", op.amount, "")
			require.NoError(t, err)
		}

		ledger, err := uc.History(ctx, "u")
		require.NoError(t, err)
		assert.Equal(t, ledger.Sum(), ledger.Balance)
		assert.GreaterOrEqual(t, ledger.Balance, int64(0))
	}
}

func TestRewardsUseCase_RejectsNonPositiveAmounts(t *testing.T) {
	uc, repo := newRewards()
	ctx := context.Background()

	_, err := uc.AddCoins(ctx, "user-1", 0, "")
	assert.True(t, stderrors.Is(err, errors.ErrInvalidAmount))
	_, _, err = uc.UseCoins(ctx, "user-1", -5, "")
	assert.True(t, stderrors.Is(err, errors.ErrInvalidAmount))
	assert.Equal(t, 0, repo.saves)
}

func TestRewardsUseCase_RejectsAmountsAboveLimit(t *testing.T) {
	uc, repo := newRewards()
	ctx := context.Background()

	_, err := uc.AddCoins(ctx, "user-1", domain.MaxCoinAmount+1, "")
	assert.True(t, stderrors.Is(err, errors.ErrInvalidAmount))
	_, err = uc.AddCoins(ctx, "user-1", math.MaxInt64, "")
	assert.True(t, stderrors.Is(err, errors.ErrInvalidAmount))
	_, _, err = uc.UseCoins(ctx, "user-1", domain.MaxCoinAmount+1, "")
	assert.True(t, stderrors.Is(err, errors.ErrInvalidAmount))
	assert.Equal(t, 0, repo.saves)

	balance, err := uc.AddCoins(ctx, "user-1", domain.MaxCoinAmount, "")
	require.NoError(t, err)
	assert.Equal(t, 100+domain.MaxCoinAmount, balance)
}

func TestRewardsUseCase_CreditNeverOverflowsBalance(t *testing.T) {
	uc, repo := newRewards()
	ctx := context.Background()

	near := math.MaxInt64 - domain.MaxCoinAmount/2
	require.NoError(t, repo.Save(ctx, &domain.Ledger{
		UserID:  "user-1",
		Balance: near,
		History: []domain.LedgerEntry{{Amount: near, Type: domain.LedgerEarned}},
	}))
	saves := repo.saves

	_, err := uc.AddCoins(ctx, "user-1", domain.MaxCoinAmount, "")
	assert.True(t, stderrors.Is(err, errors.ErrInvalidAmount))
	assert.Equal(t, saves, repo.saves)

	balance, err := uc.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, near, balance)
	assert.Greater(t, balance, int64(0))
}

func TestRewardsUseCase_Reset(t *testing.T) {
	uc, _ := newRewards()
	ctx := context.Background()

	_, err := uc.AddCoins(ctx, "user-1", 500, "")
	require.NoError(t, err)

	ledger, err := uc.Reset(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), ledger.Balance)
	assert.Len(t, ledger.History, 1)

	balance, err := uc.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)
}

func TestRewardsUseCase_ConcurrentSpendNeverOverdraws(t *testing.T) {
	uc, _ := newRewards()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _, err := uc.UseCoins(ctx, "user-1", 10, "")
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	balance, err := uc.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestRewardsUseCase_StorageFailure(t *testing.T) {
	repo := &MockLedgerRepository{}
	uc := usecase.NewRewardsUseCase(repo, 100, zap.NewNop())
	ctx := context.Background()

	repo.On("Load", ctx, "user-1").Return(nil, stderrors.New("connection refused"))

	_, err := uc.AddCoins(ctx, "user-1", 10, "")
	assert.True(t, stderrors.Is(err, errors.ErrCacheError))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
