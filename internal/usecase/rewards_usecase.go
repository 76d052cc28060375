package usecase

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/ev-spark-hub/internal/domain/repository"
	"github.com/ev-spark-hub/internal/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RewardsUseCase - единственный владелец леджера Spark Coins.
// Мутации одного пользователя сериализуются мьютексом, каждое изменение сразу сохраняется.
type RewardsUseCase struct {
	ledgerRepo      repository.LedgerRepository
	startingBalance int64
	logger          *zap.Logger
	now             func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRewardsUseCase(
	ledgerRepo repository.LedgerRepository,
	startingBalance int64,
	logger *zap.Logger,
) *RewardsUseCase {
	return &RewardsUseCase{
		ledgerRepo:      ledgerRepo,
		startingBalance: startingBalance,
		logger:          logger,
		now:             time.Now,
		locks:           make(map[string]*sync.Mutex),
	}
}

func (uc *RewardsUseCase) userLock(userID string) *sync.Mutex {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	l, ok := uc.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		uc.locks[userID] = l
	}
	return l
}

func normalizeUser(userID string) string {
	if userID == "" {
		return domain.GuestUserID
	}
	return userID
}

// load загружает леджер или создаёт стартовый с приветственным бонусом. Вызывается под userLock.
func (uc *RewardsUseCase) load(ctx context.Context, userID string) (*domain.Ledger, error) {
	ledger, err := uc.ledgerRepo.Load(ctx, userID)
	if err != nil {
		uc.logger.Error("Failed to load ledger", zap.String("user_id", userID), zap.Error(err))
		return nil, errors.ErrCacheError
	}
	if ledger != nil {
		return ledger, nil
	}

	ledger = uc.initialLedger(userID)
	if err := uc.ledgerRepo.Save(ctx, ledger); err != nil {
		uc.logger.Error("Failed to initialize ledger", zap.String("user_id", userID), zap.Error(err))
		return nil, errors.ErrCacheError
	}

	uc.logger.Info("Ledger initialized",
		zap.String("user_id", userID),
		zap.Int64("balance", ledger.Balance))
	return ledger, nil
}

func (uc *RewardsUseCase) initialLedger(userID string) *domain.Ledger {
	return &domain.Ledger{
		UserID:  userID,
		Balance: uc.startingBalance,
		History: []domain.LedgerEntry{{
			ID:          uuid.NewString(),
			Amount:      uc.startingBalance,
			Type:        domain.LedgerEarned,
			Description: domain.WelcomeBonusDescription,
			Timestamp:   uc.now().UTC(),
		}},
	}
}

// Balance возвращает текущий баланс
func (uc *RewardsUseCase) Balance(ctx context.Context, userID string) (int64, error) {
	userID = normalizeUser(userID)
	l := uc.userLock(userID)
	l.Lock()
	defer l.Unlock()

	ledger, err := uc.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return ledger.Balance, nil
}

// History возвращает баланс и историю (новые первыми)
func (uc *RewardsUseCase) History(ctx context.Context, userID string) (*domain.Ledger, error) {
	userID = normalizeUser(userID)
	l := uc.userLock(userID)
	l.Lock()
	defer l.Unlock()

	return uc.load(ctx, userID)
}

// AddCoins начисляет монеты. Сумма должна быть в пределах 1..MaxCoinAmount,
// баланс не может выйти за пределы int64.
func (uc *RewardsUseCase) AddCoins(ctx context.Context, userID string, amount int64, description string) (int64, error) {
	if amount <= 0 || amount > domain.MaxCoinAmount {
		return 0, errors.ErrInvalidAmount
	}
	if description == "" {
		description = domain.DefaultEarnDescription
	}

	userID = normalizeUser(userID)
	l := uc.userLock(userID)
	l.Lock()
	defer l.Unlock()

	ledger, err := uc.load(ctx, userID)
	if err != nil {
		return 0, err
	}

	if ledger.Balance > math.MaxInt64-amount {
		uc.logger.Warn("Coin credit would overflow balance",
			zap.String("user_id", userID),
			zap.Int64("amount", amount),
			zap.Int64("balance", ledger.Balance))
		return 0, errors.ErrInvalidAmount.WithMessage("Balance limit exceeded")
	}

	uc.append(ledger, amount, domain.LedgerEarned, description)
	if err := uc.save(ctx, ledger); err != nil {
		return 0, err
	}

	uc.logger.Info("Coins earned",
		zap.String("user_id", userID),
		zap.Int64("amount", amount),
		zap.Int64("balance", ledger.Balance))
	return ledger.Balance, nil
}

// UseCoins списывает монеты. При недостаточном балансе возвращает false и ничего не меняет.
func (uc *RewardsUseCase) UseCoins(ctx context.Context, userID string, amount int64, description string) (bool, int64, error) {
	if amount <= 0 || amount > domain.MaxCoinAmount {
		return false, 0, errors.ErrInvalidAmount
	}
	if description == "" {
		description = domain.DefaultSpendDescription
	}

	userID = normalizeUser(userID)
	l := uc.userLock(userID)
	l.Lock()
	defer l.Unlock()

	ledger, err := uc.load(ctx, userID)
	if err != nil {
		return false, 0, err
	}

	if amount > ledger.Balance {
		uc.logger.Debug("Insufficient coins",
			zap.String("user_id", userID),
			zap.Int64("amount", amount),
			zap.Int64("balance", ledger.Balance))
		return false, ledger.Balance, nil
	}

	uc.append(ledger, -amount, domain.LedgerSpent, description)
	if err := uc.save(ctx, ledger); err != nil {
		return false, 0, err
	}

	uc.logger.Info("Coins spent",
		zap.String("user_id", userID),
		zap.Int64("amount", amount),
		zap.Int64("balance", ledger.Balance))
	return true, ledger.Balance, nil
}

// Reset возвращает леджер пользователя в стартовое состояние
func (uc *RewardsUseCase) Reset(ctx context.Context, userID string) (*domain.Ledger, error) {
	userID = normalizeUser(userID)
	l := uc.userLock(userID)
	l.Lock()
	defer l.Unlock()

	ledger := uc.initialLedger(userID)
	if err := uc.save(ctx, ledger); err != nil {
		return nil, err
	}

	uc.logger.Info("Ledger reset", zap.String("user_id", userID))
	return ledger, nil
}

func (uc *RewardsUseCase) append(ledger *domain.Ledger, signedAmount int64, typ domain.LedgerEntryType, description string) {
	entry := domain.LedgerEntry{
		ID:          uuid.NewString(),
		Amount:      signedAmount,
		Type:        typ,
		Description: description,
		Timestamp:   uc.now().UTC(),
	}
	ledger.History = append([]domain.LedgerEntry{entry}, ledger.History...)
	ledger.Balance += signedAmount
}

func (uc *RewardsUseCase) save(ctx context.Context, ledger *domain.Ledger) error {
	if err := uc.ledgerRepo.Save(ctx, ledger); err != nil {
		uc.logger.Error("Failed to save ledger", zap.String("user_id", ledger.UserID), zap.Error(err))
		return errors.ErrCacheError
	}
	return nil
}
