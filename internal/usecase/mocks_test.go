package usecase_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/ev-spark-hub/internal/pkg/errors"
)

// memoryLedgerRepository - in-memory LedgerRepository, хранит копии
type memoryLedgerRepository struct {
	mu      sync.Mutex
	ledgers map[string]domain.Ledger
	saves   int
}

func newMemoryLedgerRepository() *memoryLedgerRepository {
	return &memoryLedgerRepository{ledgers: make(map[string]domain.Ledger)}
}

func (r *memoryLedgerRepository) Load(ctx context.Context, userID string) (*domain.Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.ledgers[userID]
	if !ok {
		return nil, nil
	}
	l.History = append([]domain.LedgerEntry(nil), l.History...)
	return &l, nil
}

func (r *memoryLedgerRepository) Save(ctx context.Context, ledger *domain.Ledger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l := *ledger
	l.History = append([]domain.LedgerEntry(nil), ledger.History...)
	r.ledgers[ledger.UserID] = l
	r.saves++
	return nil
}

func (r *memoryLedgerRepository) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ledgers, userID)
	return nil
}

// MockLedgerRepository is a mock of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Load(ctx context.Context, userID string) (*domain.Ledger, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

func (m *MockLedgerRepository) Save(ctx context.Context, ledger *domain.Ledger) error {
	return m.Called(ctx, ledger).Error(0)
}

func (m *MockLedgerRepository) Delete(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// MockGeoSource is a mock of GeoSource
type MockGeoSource struct {
	mock.Mock
}

func (m *MockGeoSource) FindChargingStations(ctx context.Context, lat, lon, radiusKm float64) []domain.StationRecord {
	args := m.Called(ctx, lat, lon, radiusKm)
	return args.Get(0).([]domain.StationRecord)
}

func (m *MockGeoSource) GetStationDetails(ctx context.Context, nodeID int64) (*domain.StationRecord, error) {
	args := m.Called(ctx, nodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StationRecord), args.Error(1)
}

// MockOpenChargeMap is a mock of OpenChargeMapRepository
type MockOpenChargeMap struct {
	mock.Mock
}

func (m *MockOpenChargeMap) FindNearby(ctx context.Context, lat, lon, radiusKm float64) ([]domain.StationRecord, error) {
	args := m.Called(ctx, lat, lon, radiusKm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StationRecord), args.Error(1)
}

func (m *MockOpenChargeMap) GetStation(ctx context.Context, id int64) (*domain.StationRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StationRecord), args.Error(1)
}

// MockStationRepository is a mock of StationRepository
type MockStationRepository struct {
	mock.Mock
}

func (m *MockStationRepository) FindNearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]*domain.ChargingStation, error) {
	args := m.Called(ctx, lat, lon, radiusKm, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChargingStation), args.Error(1)
}

func (m *MockStationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChargingStation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChargingStation), args.Error(1)
}

func (m *MockStationRepository) List(ctx context.Context, filter domain.StationFilter) ([]*domain.ChargingStation, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.ChargingStation), args.Int(1), args.Error(2)
}

func (m *MockStationRepository) Create(ctx context.Context, station *domain.ChargingStation) error {
	return m.Called(ctx, station).Error(0)
}

func (m *MockStationRepository) Update(ctx context.Context, station *domain.ChargingStation) error {
	return m.Called(ctx, station).Error(0)
}

func (m *MockStationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// staticSeed - SeedRepository с фиксированным списком
type staticSeed []domain.StationRecord

func (s staticSeed) All() []domain.StationRecord {
	return append([]domain.StationRecord(nil), s...)
}

// memoryPaymentRepository - in-memory PaymentRepository
type memoryPaymentRepository struct {
	mu       sync.Mutex
	payments map[uuid.UUID]domain.Payment
}

func newMemoryPaymentRepository() *memoryPaymentRepository {
	return &memoryPaymentRepository{payments: make(map[uuid.UUID]domain.Payment)}
}

func (r *memoryPaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.payments[p.ID] = *p
	return nil
}

func (r *memoryPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, errors.ErrPaymentSessionNotFound
	}
	return &p, nil
}

func (r *memoryPaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, coins int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return errors.ErrPaymentSessionNotFound
	}
	p.Status = status
	p.SparkCoinsEarned = coins
	r.payments[id] = p
	return nil
}

func (r *memoryPaymentRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Payment{}
	for _, p := range r.payments {
		if p.UserID == userID {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memoryPaymentRepository) status(id uuid.UUID) domain.PaymentStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.payments[id].Status
}

// memoryBookingRepository - in-memory BookingRepository
type memoryBookingRepository struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]domain.Booking
}

func newMemoryBookingRepository() *memoryBookingRepository {
	return &memoryBookingRepository{bookings: make(map[uuid.UUID]domain.Booking)}
}

func (r *memoryBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.bookings[b.ID] = *b
	return nil
}

func (r *memoryBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, errors.ErrBookingNotFound
	}
	return &b, nil
}

func (r *memoryBookingRepository) List(ctx context.Context, f domain.BookingFilter) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Booking{}
	for _, b := range r.bookings {
		if b.UserID != f.UserID {
			continue
		}
		if f.Status != nil && b.Status != *f.Status {
			continue
		}
		cp := b
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memoryBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return errors.ErrBookingNotFound
	}
	b.Status = status
	r.bookings[id] = b
	return nil
}

// MockStreamPublisher записывает опубликованные события
type MockStreamPublisher struct {
	mock.Mock
}

func (m *MockStreamPublisher) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	return m.Called(ctx, stream, data).Error(0)
}

// MockVerifier is a mock of PaymentVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, payment *domain.Payment) (bool, error) {
	args := m.Called(ctx, payment)
	return args.Bool(0), args.Error(1)
}
