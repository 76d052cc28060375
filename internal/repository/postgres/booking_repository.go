package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/ev-spark-hub/internal/domain/repository"
	"github.com/ev-spark-hub/internal/pkg/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const bookingColumns = `id, user_id, station_id, start_time, end_time, status, energy_used, created_at`

type bookingRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewBookingRepository(db *DB) repository.BookingRepository {
	return &bookingRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES (:id, :user_id, :station_id, :start_time, :end_time, :status, :energy_used, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, b); err != nil {
		r.logger.Error("Failed to create booking",
			zap.String("user_id", b.UserID),
			zap.String("station_id", b.StationID),
			zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, errors.ErrBookingNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get booking", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return &b, nil
}

func (r *bookingRepository) List(ctx context.Context, f domain.BookingFilter) ([]*domain.Booking, error) {
	conds := []string{"user_id = $1"}
	args := []interface{}{f.UserID}

	if f.Status != nil {
		args = append(args, string(*f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("start_time >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("start_time <= $%d", len(args)))
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	args = append(args, limit)

	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE %s ORDER BY start_time DESC LIMIT $%d`,
		bookingColumns, strings.Join(conds, " AND "), len(args))

	bookings := []*domain.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		r.logger.Error("Failed to list bookings", zap.String("user_id", f.UserID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return bookings, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE bookings SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		r.logger.Error("Failed to update booking status",
			zap.String("id", id.String()),
			zap.String("status", string(status)),
			zap.Error(err))
		return errors.ErrDatabaseError
	}

	return requireAffected(res, errors.ErrBookingNotFound)
}
