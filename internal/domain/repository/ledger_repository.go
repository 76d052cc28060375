package repository

import (
	"context"

	"github.com/ev-spark-hub/internal/domain"
)

// LedgerRepository - хранилище баланса и истории Spark Coins
type LedgerRepository interface {
	// Load возвращает леджер пользователя или nil, если пользователь ещё не встречался
	Load(ctx context.Context, userID string) (*domain.Ledger, error)

	// Save сохраняет баланс и историю целиком
	Save(ctx context.Context, ledger *domain.Ledger) error

	// Delete удаляет леджер пользователя
	Delete(ctx context.Context, userID string) error
}
