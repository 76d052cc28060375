package repository

import (
	"context"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/google/uuid"
)

// PaymentRepository - хранилище платежей
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, coinsEarned int64) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Payment, error)
}

// PaymentVerifier - проверка платежа в платёжном шлюзе
type PaymentVerifier interface {
	// Verify возвращает true, если платёж подтверждён шлюзом
	Verify(ctx context.Context, payment *domain.Payment) (bool, error)
}
