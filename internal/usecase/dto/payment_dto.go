package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePaymentSessionRequest - открытие сессии UPI оплаты
type CreatePaymentSessionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"omitempty,max=200"`
	BookingID   *uuid.UUID      `json:"booking_id,omitempty"`
	StationID   *string         `json:"station_id,omitempty" validate:"omitempty,max=128"`
}

// UPIIntentRequest - параметры для построения upi:// ссылки
type UPIIntentRequest struct {
	Amount         string `query:"amount" validate:"required,numeric"`
	Note           string `query:"note" validate:"omitempty,max=100"`
	TransactionRef string `query:"tr" validate:"omitempty,max=35"`
}

// UPIIntentResponse - ссылка на оплату
type UPIIntentResponse struct {
	URL string `json:"url"`
}

// ParseUPIRequest - содержимое QR кода
type ParseUPIRequest struct {
	Payload string `json:"payload" validate:"required,max=2048"`
}
