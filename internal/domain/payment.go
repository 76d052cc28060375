package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentFlowState - состояние сессии оплаты
type PaymentFlowState string

const (
	FlowIdle       PaymentFlowState = "idle"
	FlowProcessing PaymentFlowState = "processing"
	FlowSuccess    PaymentFlowState = "success"
	FlowFailed     PaymentFlowState = "failed"
)

// allowedTransitions - допустимые переходы конечного автомата
var allowedTransitions = map[PaymentFlowState][]PaymentFlowState{
	FlowIdle:       {FlowProcessing},
	FlowProcessing: {FlowSuccess, FlowFailed},
	FlowFailed:     {FlowIdle},
}

// CanTransition проверяет, разрешён ли переход from -> to
func CanTransition(from, to PaymentFlowState) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal - success является конечным состоянием
func (s PaymentFlowState) IsTerminal() bool {
	return s == FlowSuccess
}

// PaymentStatus - статус записи платежа в хранилище
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
)

const PaymentMethodUPI = "upi"

// Payment - запись платежа
type Payment struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	UserID           string          `json:"user_id" db:"user_id"`
	BookingID        *uuid.UUID      `json:"booking_id,omitempty" db:"booking_id"`
	StationID        *string         `json:"station_id,omitempty" db:"station_id"`
	Amount           decimal.Decimal `json:"amount" db:"amount"`
	Currency         string          `json:"currency" db:"currency"`
	PaymentMethod    string          `json:"payment_method" db:"payment_method"`
	Status           PaymentStatus   `json:"status" db:"status"`
	TransactionID    string          `json:"transaction_id" db:"transaction_id"`
	PaymentGateway   string          `json:"payment_gateway" db:"payment_gateway"`
	SparkCoinsEarned int64           `json:"spark_coins_earned" db:"spark_coins_earned"`
	ReceiverVPA      string          `json:"receiver_vpa" db:"receiver_vpa"`
	ReceiverName     string          `json:"receiver_name" db:"receiver_name"`
	Description      string          `json:"description" db:"description"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// CoinsForAmount - floor(amount / currencyPerCoin), не меньше нуля
func CoinsForAmount(amount decimal.Decimal, currencyPerCoin int64) int64 {
	if currencyPerCoin <= 0 || !amount.IsPositive() {
		return 0
	}
	return amount.Div(decimal.NewFromInt(currencyPerCoin)).Floor().IntPart()
}

// NewTransactionID генерирует идентификатор транзакции вида TXN<unix ms><6 hex>
func NewTransactionID(now time.Time) string {
	return fmt.Sprintf("TXN%d%s", now.UnixMilli(), uuid.NewString()[:6])
}

// PaymentSession - снимок сессии оплаты для API
type PaymentSession struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	State       PaymentFlowState `json:"state"`
	Amount      decimal.Decimal  `json:"amount"`
	Currency    string           `json:"currency"`
	Description string           `json:"description"`
	BookingID   *uuid.UUID       `json:"booking_id,omitempty"`
	StationID   *string          `json:"station_id,omitempty"`
	PaymentID   *uuid.UUID       `json:"payment_id,omitempty"`
	Attempt     int              `json:"attempt"`
	Error       string           `json:"error,omitempty"`
	CoinsEarned int64            `json:"coins_earned"`
	Closed      bool             `json:"closed"`
	TimedOut    bool             `json:"timed_out"`
	UPIIntent   string           `json:"upi_intent"`
	ExpiresAt   time.Time        `json:"expires_at"`
	CreatedAt   time.Time        `json:"created_at"`
}

// PaymentDoneEvent - событие об успешной оплате
type PaymentDoneEvent struct {
	PaymentID     uuid.UUID       `json:"payment_id"`
	SessionID     string          `json:"session_id"`
	UserID        string          `json:"user_id"`
	BookingID     *uuid.UUID      `json:"booking_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id"`
	CoinsEarned   int64           `json:"coins_earned"`
	CompletedAt   time.Time       `json:"completed_at"`
}

// UPIPayload - разобранное содержимое UPI QR / intent
type UPIPayload struct {
	PayeeVPA       string           `json:"pa"`
	PayeeName      string           `json:"pn,omitempty"`
	Amount         *decimal.Decimal `json:"am,omitempty"`
	TransactionRef string           `json:"tr,omitempty"`
	Note           string           `json:"tn,omitempty"`
	Currency       string           `json:"cu,omitempty"`
}
