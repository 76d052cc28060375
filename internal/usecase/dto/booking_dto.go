package dto

import "time"

// CreateBookingRequest - бронирование слота
type CreateBookingRequest struct {
	StationID string    `json:"station_id" validate:"required,max=128"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

// ListBookingsRequest - фильтры списка бронирований
type ListBookingsRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=pending confirmed completed cancelled"`
	From   string `query:"from" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To     string `query:"to" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
}
