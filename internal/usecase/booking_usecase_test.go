package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/ev-spark-hub/internal/pkg/errors"
	"github.com/ev-spark-hub/internal/usecase"
	"github.com/ev-spark-hub/internal/usecase/dto"
)

func newBookingRequest() dto.CreateBookingRequest {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return dto.CreateBookingRequest{
		StationID: "ocm-77",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	}
}

func TestBookingUseCase_CreateAndList(t *testing.T) {
	repo := newMemoryBookingRepository()
	uc := usecase.NewBookingUseCase(repo, zap.NewNop())
	ctx := context.Background()

	b, err := uc.Create(ctx, "user-1", newBookingRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.NotEqual(t, uuid.Nil, b.ID)

	_, err = uc.Create(ctx, "user-2", newBookingRequest())
	require.NoError(t, err)

	list, err := uc.List(ctx, "user-1", dto.ListBookingsRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	list, err = uc.List(ctx, "user-1", dto.ListBookingsRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBookingUseCase_CreateRejectsEmptyWindow(t *testing.T) {
	uc := usecase.NewBookingUseCase(newMemoryBookingRepository(), zap.NewNop())

	req := newBookingRequest()
	req.EndTime = req.StartTime

	_, err := uc.Create(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, errors.ErrInvalidRequest)
}

func TestBookingUseCase_ListRejectsBadDates(t *testing.T) {
	uc := usecase.NewBookingUseCase(newMemoryBookingRepository(), zap.NewNop())

	_, err := uc.List(context.Background(), "user-1", dto.ListBookingsRequest{From: "yesterday"})
	assert.ErrorIs(t, err, errors.ErrInvalidRequest)
}

func TestBookingUseCase_Cancel(t *testing.T) {
	repo := newMemoryBookingRepository()
	uc := usecase.NewBookingUseCase(repo, zap.NewNop())
	ctx := context.Background()

	b, err := uc.Create(ctx, "user-1", newBookingRequest())
	require.NoError(t, err)

	// чужое бронирование не видно
	_, err = uc.Cancel(ctx, "user-2", b.ID)
	assert.ErrorIs(t, err, errors.ErrBookingNotFound)

	cancelled, err := uc.Cancel(ctx, "user-1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, cancelled.Status)

	_, err = uc.Cancel(ctx, "user-1", b.ID)
	assert.ErrorIs(t, err, errors.ErrInvalidRequest)

	_, err = uc.Cancel(ctx, "user-1", uuid.New())
	assert.ErrorIs(t, err, errors.ErrBookingNotFound)
}

func TestBookingUseCase_ConfirmOnlyPending(t *testing.T) {
	repo := newMemoryBookingRepository()
	uc := usecase.NewBookingUseCase(repo, zap.NewNop())
	ctx := context.Background()

	b, err := uc.Create(ctx, "user-1", newBookingRequest())
	require.NoError(t, err)

	require.NoError(t, uc.Confirm(ctx, b.ID))
	stored, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, stored.Status)

	_, err = uc.Cancel(ctx, "user-1", b.ID)
	require.NoError(t, err)

	// отменённое бронирование не подтверждается повторно
	require.NoError(t, uc.Confirm(ctx, b.ID))
	stored, err = repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, stored.Status)

	assert.ErrorIs(t, uc.Confirm(ctx, uuid.New()), errors.ErrBookingNotFound)
}
