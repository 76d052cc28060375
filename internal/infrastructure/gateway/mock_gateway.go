package gateway

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/ev-spark-hub/internal/domain/repository"
	"go.uber.org/zap"
)

// MockGateway - имитация платёжного шлюза UPI. Подтверждает платёж с вероятностью successRate.
type MockGateway struct {
	successRate float64
	logger      *zap.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewMockGateway(successRate float64, logger *zap.Logger) repository.PaymentVerifier {
	return newMockGateway(successRate, rand.NewSource(time.Now().UnixNano()), logger)
}

func newMockGateway(successRate float64, src rand.Source, logger *zap.Logger) *MockGateway {
	if successRate < 0 {
		successRate = 0
	}
	if successRate > 1 {
		successRate = 1
	}
	return &MockGateway{
		successRate: successRate,
		logger:      logger,
		rnd:         rand.New(src),
	}
}

func (g *MockGateway) Verify(ctx context.Context, payment *domain.Payment) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	g.mu.Lock()
	roll := g.rnd.Float64()
	g.mu.Unlock()

	approved := roll < g.successRate
	g.logger.Debug("Mock gateway verification",
		zap.String("transaction_id", payment.TransactionID),
		zap.String("amount", payment.Amount.String()),
		zap.Bool("approved", approved))
	return approved, nil
}
