package usecase

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/ev-spark-hub/internal/domain/repository"
	"github.com/ev-spark-hub/internal/pkg/errors"
	"github.com/ev-spark-hub/internal/usecase/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultBookingsLimit = 50

type BookingUseCase struct {
	bookingRepo repository.BookingRepository
	logger      *zap.Logger
}

func NewBookingUseCase(bookingRepo repository.BookingRepository, logger *zap.Logger) *BookingUseCase {
	return &BookingUseCase{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Create создаёт бронирование в статусе pending
func (uc *BookingUseCase) Create(ctx context.Context, userID string, req dto.CreateBookingRequest) (*domain.Booking, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, errors.ErrInvalidRequest.WithMessage("end_time must be after start_time")
	}

	booking := &domain.Booking{
		ID:        uuid.New(),
		UserID:    userID,
		StationID: req.StationID,
		StartTime: req.StartTime.UTC(),
		EndTime:   req.EndTime.UTC(),
		Status:    domain.BookingPending,
	}
	if err := uc.bookingRepo.Create(ctx, booking); err != nil {
		uc.logger.Error("Failed to create booking", zap.String("user_id", userID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	uc.logger.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("station_id", booking.StationID))
	return booking, nil
}

// List возвращает бронирования пользователя, новые первыми
func (uc *BookingUseCase) List(ctx context.Context, userID string, req dto.ListBookingsRequest) ([]*domain.Booking, error) {
	filter := domain.BookingFilter{UserID: userID, Limit: req.Limit}
	if filter.Limit <= 0 {
		filter.Limit = defaultBookingsLimit
	}
	if req.Status != "" {
		status := domain.BookingStatus(req.Status)
		filter.Status = &status
	}

	var err error
	if filter.From, err = parseOptionalTime(req.From); err != nil {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"from": req.From})
	}
	if filter.To, err = parseOptionalTime(req.To); err != nil {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"to": req.To})
	}

	bookings, err := uc.bookingRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Error("Failed to list bookings", zap.String("user_id", userID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return bookings, nil
}

// Cancel отменяет бронирование владельца
func (uc *BookingUseCase) Cancel(ctx context.Context, userID string, id uuid.UUID) (*domain.Booking, error) {
	booking, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, errors.ErrBookingNotFound
	}
	if !booking.CanCancel() {
		return nil, errors.ErrInvalidRequest.WithMessage("booking cannot be cancelled in status " + string(booking.Status))
	}

	if err := uc.bookingRepo.UpdateStatus(ctx, id, domain.BookingCancelled); err != nil {
		uc.logger.Error("Failed to cancel booking", zap.String("booking_id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	booking.Status = domain.BookingCancelled

	uc.logger.Info("Booking cancelled", zap.String("booking_id", id.String()))
	return booking, nil
}

// Confirm подтверждает ожидающее бронирование после успешной оплаты
func (uc *BookingUseCase) Confirm(ctx context.Context, id uuid.UUID) error {
	booking, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	if booking.Status != domain.BookingPending {
		uc.logger.Debug("Booking not pending, skip confirm",
			zap.String("booking_id", id.String()),
			zap.String("status", string(booking.Status)))
		return nil
	}

	if err := uc.bookingRepo.UpdateStatus(ctx, id, domain.BookingConfirmed); err != nil {
		uc.logger.Error("Failed to confirm booking", zap.String("booking_id", id.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	uc.logger.Info("Booking confirmed", zap.String("booking_id", id.String()))
	return nil
}

func (uc *BookingUseCase) get(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, errors.ErrBookingNotFound) {
			return nil, errors.ErrBookingNotFound
		}
		uc.logger.Error("Failed to get booking", zap.String("booking_id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return booking, nil
}

func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
