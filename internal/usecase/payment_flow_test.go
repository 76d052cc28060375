package usecase_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/ev-spark-hub/internal/domain/repository"
	"github.com/ev-spark-hub/internal/pkg/errors"
	"github.com/ev-spark-hub/internal/usecase"
	"github.com/ev-spark-hub/internal/usecase/dto"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// verifierFunc - PaymentVerifier из функции
type verifierFunc func(ctx context.Context, p *domain.Payment) (bool, error)

func (f verifierFunc) Verify(ctx context.Context, p *domain.Payment) (bool, error) {
	return f(ctx, p)
}

type flowFixture struct {
	flow      *usecase.PaymentFlow
	rewards   *usecase.RewardsUseCase
	payments  *memoryPaymentRepository
	bookings  *memoryBookingRepository
	publisher *MockStreamPublisher

	mu     sync.Mutex
	events []domain.PaymentDoneEvent
}

func (f *flowFixture) published() []domain.PaymentDoneEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.PaymentDoneEvent(nil), f.events...)
}

func testFlowConfig() usecase.PaymentFlowConfig {
	return usecase.PaymentFlowConfig{
		PayeeVPA:            "evsparkhub@okaxis",
		PayeeName:           "EV Spark Hub",
		Currency:            "INR",
		Gateway:             "mock_gateway",
		CurrencyPerCoin:     10,
		SessionTimeout:      5 * time.Second,
		VerificationDelay:   10 * time.Millisecond,
		VerificationTimeout: time.Second,
	}
}

func newFlowFixture(t *testing.T, verifier repository.PaymentVerifier, cfg usecase.PaymentFlowConfig) *flowFixture {
	t.Helper()

	logger := zap.NewNop()
	rewards := usecase.NewRewardsUseCase(newMemoryLedgerRepository(), 100, logger)
	payments := newMemoryPaymentRepository()
	bookings := newMemoryBookingRepository()
	fx := &flowFixture{
		rewards:   rewards,
		payments:  payments,
		bookings:  bookings,
		publisher: &MockStreamPublisher{},
	}
	fx.publisher.On("PublishToStream", mock.Anything, domain.StreamPaymentDone, mock.Anything).
		Run(func(args mock.Arguments) {
			fx.mu.Lock()
			defer fx.mu.Unlock()
			fx.events = append(fx.events, args.Get(2).(domain.PaymentDoneEvent))
		}).
		Return(nil).
		Maybe()

	fx.flow = usecase.NewPaymentFlow(
		payments,
		verifier,
		rewards,
		usecase.NewBookingUseCase(bookings, logger),
		fx.publisher,
		cfg,
		logger,
	)
	t.Cleanup(fx.flow.Close)

	return fx
}

func approveAll() verifierFunc {
	return func(ctx context.Context, p *domain.Payment) (bool, error) { return true, nil }
}

func waitState(t *testing.T, f *flowFixture, userID, id string, state domain.PaymentFlowState) *domain.PaymentSession {
	t.Helper()
	var last *domain.PaymentSession
	require.Eventually(t, func() bool {
		s, err := f.flow.Get(userID, id)
		if err != nil {
			return false
		}
		last = s
		return s.State == state
	}, waitFor, tick)
	return last
}

func TestPaymentFlow_SuccessCreditsFlooredCoins(t *testing.T) {
	f := newFlowFixture(t, approveAll(), testFlowConfig())
	ctx := context.Background()

	booking := &domain.Booking{UserID: "user-1", StationID: "ocm-1", Status: domain.BookingPending}
	require.NoError(t, f.bookings.Create(ctx, booking))

	session, err := f.flow.CreateSession(ctx, "user-1", dto.CreatePaymentSessionRequest{
		Amount:      decimal.NewFromInt(436),
		Description: "Charging session",
		BookingID:   &booking.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.FlowIdle, session.State)
	assert.Contains(t, session.UPIIntent, "upi://pay?")
	assert.Contains(t, session.UPIIntent, "am=436.00")

	initiated, err := f.flow.Initiate(ctx, "user-1", session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FlowProcessing, initiated.State)
	require.NotNil(t, initiated.PaymentID)

	done := waitState(t, f, "user-1", session.ID, domain.FlowSuccess)
	assert.Equal(t, int64(43), done.CoinsEarned)

	require.Eventually(t, func() bool {
		balance, err := f.rewards.Balance(ctx, "user-1")
		return err == nil && balance == 143
	}, waitFor, tick)

	ledger, err := f.rewards.History(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(43), ledger.History[0].Amount)
	assert.Equal(t, "UPI payment", ledger.History[0].Description)

	require.Eventually(t, func() bool {
		b, err := f.bookings.GetByID(ctx, booking.ID)
		return err == nil && b.Status == domain.BookingConfirmed
	}, waitFor, tick)

	payment, err := f.payments.GetByID(ctx, *initiated.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, payment.Status)
	assert.Equal(t, int64(43), payment.SparkCoinsEarned)
	assert.Equal(t, "upi", payment.PaymentMethod)

	require.Eventually(t, func() bool { return len(f.published()) == 1 }, waitFor, tick)
	event := f.published()[0]
	assert.Equal(t, payment.ID, event.PaymentID)
	assert.Equal(t, int64(43), event.CoinsEarned)
	assert.Equal(t, &booking.ID, event.BookingID)
}

func TestPaymentFlow_SmallAmountEarnsNothing(t *testing.T) {
	f := newFlowFixture(t, approveAll(), testFlowConfig())
	ctx := context.Background()

	session, err := f.flow.CreateSession(ctx, "user-1", dto.CreatePaymentSessionRequest{
		Amount: decimal.RequireFromString("9.99"),
	})
	require.NoError(t, err)
	_, err = f.flow.Initiate(ctx, "user-1", session.ID)
	require.NoError(t, err)

	done := waitState(t, f, "user-1", session.ID, domain.FlowSuccess)
	assert.Equal(t, int64(0), done.CoinsEarned)

	ledger, err := f.rewards.History(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, ledger.History, 1)
	assert.Equal(t, int64(100), ledger.Balance)
}

func TestPaymentFlow_DeclinedThenRetry(t *testing.T) {
	verifier := &MockVerifier{}
	verifier.On("Verify", mock.Anything, mock.Anything).Return(false, nil).Once()
	verifier.On("Verify", mock.Anything, mock.Anything).Return(true, nil)

	f := newFlowFixture(t, verifier, testFlowConfig())
	ctx := context.Background()

	session, err := f.flow.CreateSession(ctx, "user-1", dto.CreatePaymentSessionRequest{
		Amount: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	first, err := f.flow.Initiate(ctx, "user-1", session.ID)
	require.NoError(t, err)

	failed := waitState(t, f, "user-1", session.ID, domain.FlowFailed)
	assert.Equal(t, "Payment was declined by the bank", failed.Error)
	assert.False(t, failed.Closed)

	require.Eventually(t, func() bool {
		return f.payments.status(*first.PaymentID) == domain.PaymentFailed
	}, waitFor, tick)

	balance, err := f.rewards.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	retried, err := f.flow.Retry("user-1", session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FlowIdle, retried.State)
	assert.Empty(t, retried.Error)

	second, err := f.flow.Initiate(ctx, "user-1", session.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Attempt)
	assert.NotEqual(t, *first.PaymentID, *second.PaymentID)

	waitState(t, f, "user-1", session.ID, domain.FlowSuccess)
	require.Eventually(t, func() bool {
		balance, err := f.rewards.Balance(ctx, "user-1")
		return err == nil && balance == 120
	}, waitFor, tick)
}

func TestPaymentFlow_VerificationTimeout(t *testing.T) {
	cfg := testFlowConfig()
	cfg.VerificationTimeout = 30 * time.Millisecond

	blocking := verifierFunc(func(ctx context.Context, p *domain.Payment) (bool, error) {
		<-ctx.Done()
		return false, ctx.Err()
	})
	f := newFlowFixture(t, blocking, cfg)
	ctx := context.Background()

	session, err := f.flow.CreateSession(ctx, "user-1", dto.CreatePaymentSessionRequest{Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)
	_, err = f.flow.Initiate(ctx, "user-1", session.ID)
	require.NoError(t, err)

	failed := waitState(t, f, "user-1", session.ID, domain.FlowFailed)
	assert.Equal(t, "Payment verification timed out", failed.Error)
	assert.False(t, failed.TimedOut)
}

func TestPaymentFlow_SessionCountdownExpires(t *testing.T) {
	cfg := testFlowConfig()
	cfg.SessionTimeout = 40 * time.Millisecond

	f := newFlowFixture(t, approveAll(), cfg)
	ctx := context.Background()

	session, err := f.flow.CreateSession(ctx, "user-1", dto.CreatePaymentSessionRequest{Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)

	expired := waitState(t, f, "user-1", session.ID, domain.FlowFailed)
	assert.True(t, expired.Closed)
	assert.True(t, expired.TimedOut)
	assert.Equal(t, "Payment session timed out", expired.Error)

	_, err = f.flow.Retry("user-1", session.ID)
	assert.ErrorIs(t, err, errors.ErrPaymentSessionClosed)
	_, err = f.flow.Initiate(ctx, "user-1", session.ID)
	assert.ErrorIs(t, err, errors.ErrPaymentSessionClosed)
}

func TestPaymentFlow_CountdownAbandonsInFlightVerification(t *testing.T) {
	cfg := testFlowConfig()
	cfg.SessionTimeout = 60 * time.Millisecond

	release := make(chan struct{})
	defer close(release)
	slow := verifierFunc(func(ctx context.Context, p *domain.Payment) (bool, error) {
		select {
		case <-ctx.Done():
		case <-release:
		}
		return true, nil
	})
	f := newFlowFixture(t, slow, cfg)
	ctx := context.Background()

	session, err := f.flow.CreateSession(ctx, "user-1", dto.CreatePaymentSessionRequest{Amount: decimal.NewFromInt(500)})
	require.NoError(t, err)
	initiated, err := f.flow.Initiate(ctx, "user-1", session.ID)
	require.NoError(t, err)

	expired := waitState(t, f, "user-1", session.ID, domain.FlowFailed)
	assert.True(t, expired.TimedOut)

	require.Eventually(t, func() bool {
		return f.payments.status(*initiated.PaymentID) == domain.PaymentFailed
	}, waitFor, tick)

	time.Sleep(30 * time.Millisecond)
	balance, err := f.rewards.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	current, err := f.flow.Get("user-1", session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FlowFailed, current.State)
}

func TestPaymentFlow_DismissStopsEverything(t *testing.T) {
	var calls int32
	started := make(chan struct{}, 1)
	approveLate := verifierFunc(func(ctx context.Context, p *domain.Payment) (bool, error) {
		atomic.AddInt32(&calls, 1)
		started <- struct{}{}
		<-ctx.Done()
		return true, nil
	})
	f := newFlowFixture(t, approveLate, testFlowConfig())
	ctx := context.Background()

	session, err := f.flow.CreateSession(ctx, "user-1", dto.CreatePaymentSessionRequest{Amount: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	_, err = f.flow.Initiate(ctx, "user-1", session.ID)
	require.NoError(t, err)

	select {
	case <-started:
	case <-time.After(waitFor):
		t.Fatal("verification did not start")
	}

	require.NoError(t, f.flow.Dismiss("user-1", session.ID))

	_, err = f.flow.Get("user-1", session.ID)
	assert.ErrorIs(t, err, errors.ErrPaymentSessionNotFound)

	time.Sleep(50 * time.Millisecond)
	balance, err := f.rewards.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Empty(t, f.published())

	assert.ErrorIs(t, f.flow.Dismiss("user-1", session.ID), errors.ErrPaymentSessionNotFound)
}

func TestPaymentFlow_DismissBeforeVerificationDelay(t *testing.T) {
	cfg := testFlowConfig()
	cfg.VerificationDelay = 50 * time.Millisecond

	verifier := &MockVerifier{}
	f := newFlowFixture(t, verifier, cfg)
	ctx := context.Background()

	session, err := f.flow.CreateSession(ctx, "user-1", dto.CreatePaymentSessionRequest{Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	_, err = f.flow.Initiate(ctx, "user-1", session.ID)
	require.NoError(t, err)
	require.NoError(t, f.flow.Dismiss("user-1", session.ID))

	time.Sleep(100 * time.Millisecond)
	verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestPaymentFlow_InvalidTransitions(t *testing.T) {
	cfg := testFlowConfig()
	cfg.VerificationDelay = time.Second

	f := newFlowFixture(t, approveAll(), cfg)
	ctx := context.Background()

	session, err := f.flow.CreateSession(ctx, "user-1", dto.CreatePaymentSessionRequest{Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)

	_, err = f.flow.Retry("user-1", session.ID)
	assert.ErrorIs(t, err, errors.ErrInvalidPaymentTransition)

	_, err = f.flow.Initiate(ctx, "user-1", session.ID)
	require.NoError(t, err)
	_, err = f.flow.Initiate(ctx, "user-1", session.ID)
	assert.ErrorIs(t, err, errors.ErrInvalidPaymentTransition)
}

func TestPaymentFlow_RejectsNonPositiveAmount(t *testing.T) {
	f := newFlowFixture(t, approveAll(), testFlowConfig())

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		_, err := f.flow.CreateSession(context.Background(), "user-1", dto.CreatePaymentSessionRequest{Amount: amount})
		assert.ErrorIs(t, err, errors.ErrInvalidAmount)
	}
}

func TestPaymentFlow_SessionsAreScopedToUser(t *testing.T) {
	f := newFlowFixture(t, approveAll(), testFlowConfig())
	ctx := context.Background()

	session, err := f.flow.CreateSession(ctx, "user-1", dto.CreatePaymentSessionRequest{Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)

	_, err = f.flow.Get("user-2", session.ID)
	assert.ErrorIs(t, err, errors.ErrPaymentSessionNotFound)
	_, err = f.flow.Initiate(ctx, "user-2", session.ID)
	assert.ErrorIs(t, err, errors.ErrPaymentSessionNotFound)
	_, err = f.flow.Get("user-1", uuid.NewString())
	assert.ErrorIs(t, err, errors.ErrPaymentSessionNotFound)
}

func TestPaymentFlow_History(t *testing.T) {
	f := newFlowFixture(t, approveAll(), testFlowConfig())
	ctx := context.Background()

	session, err := f.flow.CreateSession(ctx, "", dto.CreatePaymentSessionRequest{Amount: decimal.NewFromInt(30)})
	require.NoError(t, err)
	assert.Equal(t, domain.GuestUserID, session.UserID)

	_, err = f.flow.Initiate(ctx, "", session.ID)
	require.NoError(t, err)
	waitState(t, f, "", session.ID, domain.FlowSuccess)

	payments, err := f.flow.History(ctx, domain.GuestUserID, 0)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.True(t, decimal.NewFromInt(30).Equal(payments[0].Amount))
}

func TestPaymentFlow_GuestSessionEarnsNoCoins(t *testing.T) {
	f := newFlowFixture(t, approveAll(), testFlowConfig())
	ctx := context.Background()

	session, err := f.flow.CreateSession(ctx, "", dto.CreatePaymentSessionRequest{Amount: decimal.NewFromInt(500)})
	require.NoError(t, err)
	initiated, err := f.flow.Initiate(ctx, "", session.ID)
	require.NoError(t, err)
	require.NotNil(t, initiated.PaymentID)

	done := waitState(t, f, "", session.ID, domain.FlowSuccess)
	assert.Equal(t, int64(0), done.CoinsEarned)

	require.Eventually(t, func() bool {
		p, err := f.payments.GetByID(ctx, *initiated.PaymentID)
		return err == nil && p.Status == domain.PaymentCompleted
	}, waitFor, tick)
	payment, err := f.payments.GetByID(ctx, *initiated.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), payment.SparkCoinsEarned)

	ledger, err := f.rewards.History(ctx, domain.GuestUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), ledger.Balance)
	assert.Len(t, ledger.History, 1)
}

func TestPaymentFlow_Intent(t *testing.T) {
	f := newFlowFixture(t, approveAll(), testFlowConfig())

	link, err := f.flow.Intent(decimal.RequireFromString("250.5"), "Top up", "REF1")
	require.NoError(t, err)
	assert.Equal(t, "upi://pay?am=250.50&cu=INR&pa=evsparkhub%40okaxis&pn=EV+Spark+Hub&tn=Top+up&tr=REF1", link)

	link, err = f.flow.Intent(decimal.NewFromInt(10), "", "")
	require.NoError(t, err)
	assert.Contains(t, link, "tr=TXN")

	_, err = f.flow.Intent(decimal.Zero, "", "")
	assert.ErrorIs(t, err, errors.ErrInvalidAmount)
}
