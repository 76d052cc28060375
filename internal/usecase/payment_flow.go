package usecase

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/ev-spark-hub/internal/domain/repository"
	"github.com/ev-spark-hub/internal/pkg/errors"
	"github.com/ev-spark-hub/internal/pkg/upi"
	"github.com/ev-spark-hub/internal/usecase/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	msgPaymentDeclined = "Payment was declined by the bank"
	msgVerifyTimeout   = "Payment verification timed out"
	msgVerifyFailed    = "Payment verification failed"
	msgSessionTimeout  = "Payment session timed out"
	msgRecordFailed    = "Could not register payment, please retry"

	defaultPaymentHistoryLimit = 50
)

// CoinCrediter начисляет монеты за успешную оплату
type CoinCrediter interface {
	AddCoins(ctx context.Context, userID string, amount int64, description string) (int64, error)
}

// BookingConfirmer подтверждает бронирование, оплаченное в сессии
type BookingConfirmer interface {
	Confirm(ctx context.Context, id uuid.UUID) error
}

// EventPublisher публикует события в Redis Streams
type EventPublisher interface {
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}

// PaymentFlowConfig - параметры сессий оплаты
type PaymentFlowConfig struct {
	PayeeVPA            string
	PayeeName           string
	Currency            string
	Gateway             string
	CurrencyPerCoin     int64
	SessionTimeout      time.Duration
	VerificationDelay   time.Duration
	VerificationTimeout time.Duration
}

// paymentSession - состояние одной сессии. Все поля защищены PaymentFlow.mu.
type paymentSession struct {
	snapshot domain.PaymentSession
	payment  *domain.Payment

	countdown   *time.Timer
	verifyTimer *time.Timer
	cleanup     *time.Timer
	cancel      context.CancelFunc
}

func (s *paymentSession) stopVerification() {
	if s.verifyTimer != nil {
		s.verifyTimer.Stop()
		s.verifyTimer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *paymentSession) stopAll() {
	s.stopVerification()
	if s.countdown != nil {
		s.countdown.Stop()
	}
	if s.cleanup != nil {
		s.cleanup.Stop()
	}
}

// PaymentFlow - конечный автомат mock UPI оплаты: idle -> processing -> success|failed, failed -> idle.
// Таймер сессии принудительно закрывает её, Dismiss прекращает любую работу над сессией.
type PaymentFlow struct {
	paymentRepo repository.PaymentRepository
	verifier    repository.PaymentVerifier
	rewards     CoinCrediter
	bookings    BookingConfirmer
	publisher   EventPublisher
	cfg         PaymentFlowConfig
	logger      *zap.Logger
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*paymentSession
}

// NewPaymentFlow создает payment flow. bookings и publisher могут быть nil.
func NewPaymentFlow(
	paymentRepo repository.PaymentRepository,
	verifier repository.PaymentVerifier,
	rewards CoinCrediter,
	bookings BookingConfirmer,
	publisher EventPublisher,
	cfg PaymentFlowConfig,
	logger *zap.Logger,
) *PaymentFlow {
	if cfg.CurrencyPerCoin <= 0 {
		cfg.CurrencyPerCoin = 10
	}
	if cfg.SessionTimeout <= 0 {
		cfg.SessionTimeout = 120 * time.Second
	}
	if cfg.VerificationTimeout <= 0 {
		cfg.VerificationTimeout = 30 * time.Second
	}
	return &PaymentFlow{
		paymentRepo: paymentRepo,
		verifier:    verifier,
		rewards:     rewards,
		bookings:    bookings,
		publisher:   publisher,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
		sessions:    make(map[string]*paymentSession),
	}
}

// CreateSession открывает сессию в состоянии idle и запускает обратный отсчёт
func (f *PaymentFlow) CreateSession(ctx context.Context, userID string, req dto.CreatePaymentSessionRequest) (*domain.PaymentSession, error) {
	if !req.Amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}

	userID = normalizeUser(userID)
	now := f.now().UTC()
	id := uuid.NewString()
	amount := req.Amount.Round(2)

	s := &paymentSession{
		snapshot: domain.PaymentSession{
			ID:          id,
			UserID:      userID,
			State:       domain.FlowIdle,
			Amount:      amount,
			Currency:    f.cfg.Currency,
			Description: req.Description,
			BookingID:   req.BookingID,
			StationID:   req.StationID,
			UPIIntent: upi.BuildIntent(domain.UPIPayload{
				PayeeVPA:       f.cfg.PayeeVPA,
				PayeeName:      f.cfg.PayeeName,
				Amount:         &amount,
				TransactionRef: id,
				Note:           req.Description,
				Currency:       f.cfg.Currency,
			}),
			ExpiresAt: now.Add(f.cfg.SessionTimeout),
			CreatedAt: now,
		},
	}

	f.mu.Lock()
	f.sessions[id] = s
	s.countdown = time.AfterFunc(f.cfg.SessionTimeout, func() { f.expire(id) })
	snapshot := s.snapshot
	f.mu.Unlock()

	f.logger.Info("Payment session created",
		zap.String("session_id", id),
		zap.String("user_id", userID),
		zap.String("amount", amount.String()))
	return &snapshot, nil
}

// Intent строит upi:// ссылку на оплату получателю сервиса
func (f *PaymentFlow) Intent(amount decimal.Decimal, note, ref string) (string, error) {
	if !amount.IsPositive() {
		return "", errors.ErrInvalidAmount
	}
	amount = amount.Round(2)
	if ref == "" {
		ref = domain.NewTransactionID(f.now())
	}
	return upi.BuildIntent(domain.UPIPayload{
		PayeeVPA:       f.cfg.PayeeVPA,
		PayeeName:      f.cfg.PayeeName,
		Amount:         &amount,
		TransactionRef: ref,
		Note:           note,
		Currency:       f.cfg.Currency,
	}), nil
}

// Get возвращает снимок сессии пользователя
func (f *PaymentFlow) Get(userID, id string) (*domain.PaymentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.lookup(userID, id)
	if err != nil {
		return nil, err
	}
	snapshot := s.snapshot
	return &snapshot, nil
}

// Initiate переводит сессию idle -> processing, создаёт pending платёж
// и через VerificationDelay запускает проверку в шлюзе.
func (f *PaymentFlow) Initiate(ctx context.Context, userID, id string) (*domain.PaymentSession, error) {
	f.mu.Lock()
	s, err := f.lookup(userID, id)
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}
	if s.snapshot.Closed {
		f.mu.Unlock()
		return nil, errors.ErrPaymentSessionClosed
	}
	if !domain.CanTransition(s.snapshot.State, domain.FlowProcessing) {
		state := s.snapshot.State
		f.mu.Unlock()
		return nil, errors.ErrInvalidPaymentTransition.WithDetails(map[string]interface{}{
			"from": state,
			"to":   domain.FlowProcessing,
		})
	}

	s.snapshot.State = domain.FlowProcessing
	s.snapshot.Error = ""
	s.snapshot.Attempt++
	attempt := s.snapshot.Attempt

	now := f.now().UTC()
	payment := &domain.Payment{
		ID:             uuid.New(),
		UserID:         s.snapshot.UserID,
		BookingID:      s.snapshot.BookingID,
		StationID:      s.snapshot.StationID,
		Amount:         s.snapshot.Amount,
		Currency:       s.snapshot.Currency,
		PaymentMethod:  domain.PaymentMethodUPI,
		Status:         domain.PaymentPending,
		TransactionID:  domain.NewTransactionID(now),
		PaymentGateway: f.cfg.Gateway,
		ReceiverVPA:    f.cfg.PayeeVPA,
		ReceiverName:   f.cfg.PayeeName,
		Description:    s.snapshot.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.mu.Unlock()

	createErr := f.paymentRepo.Create(ctx, payment)

	f.mu.Lock()
	current, ok := f.sessions[id]
	if !ok || current != s || s.snapshot.Closed || s.snapshot.Attempt != attempt {
		f.mu.Unlock()
		if createErr == nil {
			f.markFailed(payment)
		}
		return nil, errors.ErrPaymentSessionClosed
	}
	defer f.mu.Unlock()

	if createErr != nil {
		f.logger.Error("Failed to create payment record",
			zap.String("session_id", id),
			zap.Error(createErr))
		s.snapshot.State = domain.FlowFailed
		s.snapshot.Error = msgRecordFailed
		return nil, errors.ErrDatabaseError
	}

	s.payment = payment
	paymentID := payment.ID
	s.snapshot.PaymentID = &paymentID

	verifyCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.verifyTimer = time.AfterFunc(f.cfg.VerificationDelay, func() {
		f.verify(verifyCtx, id, attempt, payment)
	})

	f.logger.Info("Payment initiated",
		zap.String("session_id", id),
		zap.String("transaction_id", payment.TransactionID),
		zap.Int("attempt", attempt))

	snapshot := s.snapshot
	return &snapshot, nil
}

// Retry возвращает неуспешную сессию в idle
func (f *PaymentFlow) Retry(userID, id string) (*domain.PaymentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.lookup(userID, id)
	if err != nil {
		return nil, err
	}
	if s.snapshot.Closed {
		return nil, errors.ErrPaymentSessionClosed
	}
	if !domain.CanTransition(s.snapshot.State, domain.FlowIdle) {
		return nil, errors.ErrInvalidPaymentTransition.WithDetails(map[string]interface{}{
			"from": s.snapshot.State,
			"to":   domain.FlowIdle,
		})
	}

	s.snapshot.State = domain.FlowIdle
	s.snapshot.Error = ""
	s.payment = nil
	s.snapshot.PaymentID = nil

	snapshot := s.snapshot
	return &snapshot, nil
}

// Dismiss закрывает сессию: останавливает таймеры и отбрасывает незавершённую проверку
func (f *PaymentFlow) Dismiss(userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.lookup(userID, id)
	if err != nil {
		return err
	}

	s.stopAll()
	s.snapshot.Closed = true
	s.snapshot.Attempt++
	delete(f.sessions, id)

	f.logger.Info("Payment session dismissed",
		zap.String("session_id", id),
		zap.String("state", string(s.snapshot.State)))
	return nil
}

// History возвращает платежи пользователя
func (f *PaymentFlow) History(ctx context.Context, userID string, limit int) ([]*domain.Payment, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultPaymentHistoryLimit
	}
	payments, err := f.paymentRepo.ListByUser(ctx, normalizeUser(userID), limit)
	if err != nil {
		f.logger.Error("Failed to list payments", zap.String("user_id", userID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return payments, nil
}

// Close останавливает все сессии
func (f *PaymentFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, s := range f.sessions {
		s.stopAll()
		s.snapshot.Closed = true
		delete(f.sessions, id)
	}
}

// lookup вызывается под f.mu
func (f *PaymentFlow) lookup(userID, id string) (*paymentSession, error) {
	s, ok := f.sessions[id]
	if !ok || s.snapshot.UserID != normalizeUser(userID) {
		return nil, errors.ErrPaymentSessionNotFound
	}
	return s, nil
}

// current возвращает сессию, если attempt всё ещё актуален. Вызывается под f.mu.
func (f *PaymentFlow) current(id string, attempt int) (*paymentSession, bool) {
	s, ok := f.sessions[id]
	if !ok || s.snapshot.Closed || s.snapshot.Attempt != attempt || s.snapshot.State != domain.FlowProcessing {
		return nil, false
	}
	return s, true
}

func (f *PaymentFlow) verify(ctx context.Context, id string, attempt int, payment *domain.Payment) {
	vctx, cancel := context.WithTimeout(ctx, f.cfg.VerificationTimeout)
	defer cancel()

	approved, err := f.verifier.Verify(vctx, payment)
	if ctx.Err() != nil {
		// сессия закрыта, результат никому не нужен
		return
	}
	if err == nil && vctx.Err() != nil {
		err = vctx.Err()
	}

	if approved && err == nil {
		f.succeed(id, attempt, payment)
		return
	}

	message := msgPaymentDeclined
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		message = msgVerifyTimeout
	case err != nil:
		message = msgVerifyFailed
	}
	f.fail(id, attempt, payment, message, err)
}

func (f *PaymentFlow) succeed(id string, attempt int, payment *domain.Payment) {
	f.mu.Lock()
	s, ok := f.current(id, attempt)
	if !ok {
		f.mu.Unlock()
		f.logger.Debug("Discarding stale verification result", zap.String("session_id", id), zap.Int("attempt", attempt))
		return
	}

	// общий леджер guest не пополняется платежами анонимных сессий
	var coins int64
	if s.snapshot.UserID != domain.GuestUserID {
		coins = domain.CoinsForAmount(payment.Amount, f.cfg.CurrencyPerCoin)
	}
	s.snapshot.State = domain.FlowSuccess
	s.snapshot.CoinsEarned = coins
	s.stopVerification()
	s.countdown.Stop()
	s.cleanup = time.AfterFunc(f.cfg.SessionTimeout, func() { f.remove(id, s) })
	userID := s.snapshot.UserID
	f.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), f.cfg.VerificationTimeout)
	defer cancel()

	if err := f.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentCompleted, coins); err != nil {
		f.logger.Error("Failed to mark payment completed",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err))
	}

	if coins > 0 {
		if _, err := f.rewards.AddCoins(ctx, userID, coins, domain.PaymentRewardDescription); err != nil {
			f.logger.Error("Failed to credit coins",
				zap.String("user_id", userID),
				zap.Int64("coins", coins),
				zap.Error(err))
		}
	}

	if payment.BookingID != nil && f.bookings != nil {
		if err := f.bookings.Confirm(ctx, *payment.BookingID); err != nil {
			f.logger.Warn("Failed to confirm booking",
				zap.String("booking_id", payment.BookingID.String()),
				zap.Error(err))
		}
	}

	if f.publisher != nil {
		event := domain.PaymentDoneEvent{
			PaymentID:     payment.ID,
			SessionID:     id,
			UserID:        userID,
			BookingID:     payment.BookingID,
			Amount:        payment.Amount,
			TransactionID: payment.TransactionID,
			CoinsEarned:   coins,
			CompletedAt:   f.now().UTC(),
		}
		if err := f.publisher.PublishToStream(ctx, domain.StreamPaymentDone, event); err != nil {
			f.logger.Warn("Failed to publish payment event", zap.String("payment_id", payment.ID.String()), zap.Error(err))
		}
	}

	f.logger.Info("Payment completed",
		zap.String("session_id", id),
		zap.String("transaction_id", payment.TransactionID),
		zap.Int64("coins_earned", coins))
}

func (f *PaymentFlow) fail(id string, attempt int, payment *domain.Payment, message string, cause error) {
	f.mu.Lock()
	s, ok := f.current(id, attempt)
	if !ok {
		f.mu.Unlock()
		f.logger.Debug("Discarding stale verification result", zap.String("session_id", id), zap.Int("attempt", attempt))
		return
	}
	s.snapshot.State = domain.FlowFailed
	s.snapshot.Error = message
	s.stopVerification()
	f.mu.Unlock()

	f.markFailed(payment)

	f.logger.Warn("Payment failed",
		zap.String("session_id", id),
		zap.String("reason", message),
		zap.Error(cause))
}

// expire срабатывает по таймеру сессии
func (f *PaymentFlow) expire(id string) {
	f.mu.Lock()
	s, ok := f.sessions[id]
	if !ok || s.snapshot.Closed || s.snapshot.State == domain.FlowSuccess {
		f.mu.Unlock()
		return
	}

	var inFlight *domain.Payment
	if s.snapshot.State == domain.FlowProcessing {
		inFlight = s.payment
	}

	s.stopVerification()
	s.snapshot.State = domain.FlowFailed
	s.snapshot.Error = msgSessionTimeout
	s.snapshot.Closed = true
	s.snapshot.TimedOut = true
	s.snapshot.Attempt++
	s.cleanup = time.AfterFunc(f.cfg.SessionTimeout, func() { f.remove(id, s) })
	f.mu.Unlock()

	if inFlight != nil {
		f.markFailed(inFlight)
	}

	f.logger.Warn("Payment session timed out", zap.String("session_id", id))
}

func (f *PaymentFlow) markFailed(payment *domain.Payment) {
	ctx, cancel := context.WithTimeout(context.Background(), f.cfg.VerificationTimeout)
	defer cancel()

	if err := f.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentFailed, 0); err != nil {
		f.logger.Error("Failed to mark payment failed",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err))
	}
}

// remove удаляет завершённую сессию, если она не была пересоздана
func (f *PaymentFlow) remove(id string, s *paymentSession) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if current, ok := f.sessions[id]; ok && current == s {
		delete(f.sessions, id)
	}
}
