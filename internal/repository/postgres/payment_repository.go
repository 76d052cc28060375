package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/ev-spark-hub/internal/domain/repository"
	"github.com/ev-spark-hub/internal/pkg/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const paymentColumns = `
	id, user_id, booking_id, station_id, amount, currency, payment_method, status,
	transaction_id, payment_gateway, spark_coins_earned, receiver_vpa, receiver_name,
	description, created_at, updated_at`

type paymentRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPaymentRepository(db *DB) repository.PaymentRepository {
	return &paymentRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES (
			:id, :user_id, :booking_id, :station_id, :amount, :currency, :payment_method, :status,
			:transaction_id, :payment_gateway, :spark_coins_earned, :receiver_vpa, :receiver_name,
			:description, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		r.logger.Error("Failed to create payment",
			zap.String("user_id", p.UserID),
			zap.String("transaction_id", p.TransactionID),
			zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	var p domain.Payment
	err := r.db.GetContext(ctx, &p, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, errors.ErrPaymentSessionNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get payment", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return &p, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, coinsEarned int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status = $2, spark_coins_earned = $3, updated_at = NOW() WHERE id = $1`,
		id, status, coinsEarned)
	if err != nil {
		r.logger.Error("Failed to update payment status",
			zap.String("id", id.String()),
			zap.String("status", string(status)),
			zap.Error(err))
		return errors.ErrDatabaseError
	}

	return requireAffected(res, errors.ErrPaymentSessionNotFound)
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Payment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	payments := []*domain.Payment{}
	err := r.db.SelectContext(ctx, &payments,
		`SELECT `+paymentColumns+` FROM payments WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		r.logger.Error("Failed to list payments", zap.String("user_id", userID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return payments, nil
}
