package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus - статус бронирования
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking - бронирование слота на станции
type Booking struct {
	ID         uuid.UUID     `json:"id" db:"id"`
	UserID     string        `json:"user_id" db:"user_id"`
	StationID  string        `json:"station_id" db:"station_id"`
	StartTime  time.Time     `json:"start_time" db:"start_time"`
	EndTime    time.Time     `json:"end_time" db:"end_time"`
	Status     BookingStatus `json:"status" db:"status"`
	EnergyUsed *float64      `json:"energy_used,omitempty" db:"energy_used"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
}

// CanCancel - отменить можно только ожидающее или подтверждённое бронирование
func (b *Booking) CanCancel() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// BookingFilter - фильтры списка бронирований
type BookingFilter struct {
	UserID string
	Status *BookingStatus
	From   *time.Time
	To     *time.Time
	Limit  int
}
