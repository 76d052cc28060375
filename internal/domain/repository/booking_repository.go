package repository

import (
	"context"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/google/uuid"
)

// BookingRepository - хранилище бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error
}
