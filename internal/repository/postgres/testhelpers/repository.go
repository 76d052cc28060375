package testhelpers

import (
	"github.com/ev-spark-hub/internal/domain/repository"
	"github.com/ev-spark-hub/internal/repository/postgres"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewStationRepositoryForTest creates a station repository with test database and logger
func NewStationRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.StationRepository {
	return postgres.NewStationRepository(NewDBForTest(db, logger))
}

// NewPaymentRepositoryForTest creates a payment repository with test database and logger
func NewPaymentRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.PaymentRepository {
	return postgres.NewPaymentRepository(NewDBForTest(db, logger))
}

// NewBookingRepositoryForTest creates a booking repository with test database and logger
func NewBookingRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.BookingRepository {
	return postgres.NewBookingRepository(NewDBForTest(db, logger))
}
