package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultShutdownTimeout - сколько ждать завершения воркеров при остановке
const DefaultShutdownTimeout = 30 * time.Second

// Manager запускает зарегистрированные воркеры и останавливает их с таймаутом
type Manager struct {
	logger          *zap.Logger
	shutdownTimeout time.Duration

	mu      sync.Mutex
	workers []Worker
	wg      sync.WaitGroup
}

func NewManager(shutdownTimeout time.Duration, logger *zap.Logger) *Manager {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	return &Manager{
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}
}

func (m *Manager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.workers = append(m.workers, w)
	m.logger.Info("Worker registered", zap.String("name", w.Name()))
}

func (m *Manager) snapshot() []Worker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Worker(nil), m.workers...)
}

// Start запускает каждый воркер в своей горутине и сразу возвращается
func (m *Manager) Start(ctx context.Context) error {
	workers := m.snapshot()
	if len(workers) == 0 {
		return fmt.Errorf("no workers registered")
	}

	m.logger.Info("Starting workers", zap.Int("count", len(workers)))

	for _, w := range workers {
		m.wg.Add(1)
		go func(w Worker) {
			defer m.wg.Done()
			if err := w.Start(ctx); err != nil && ctx.Err() == nil {
				m.logger.Error("Worker failed",
					zap.String("name", w.Name()),
					zap.Error(err))
			}
		}(w)
	}

	return nil
}

// Stats возвращает счётчики всех воркеров по имени
func (m *Manager) Stats() map[string]Stats {
	workers := m.snapshot()
	out := make(map[string]Stats, len(workers))
	for _, w := range workers {
		out[w.Name()] = w.Stats()
	}
	return out
}

// Stop останавливает все воркеры и ждёт их не дольше shutdownTimeout
func (m *Manager) Stop() error {
	workers := m.snapshot()
	m.logger.Info("Stopping workers", zap.Int("count", len(workers)))

	for _, w := range workers {
		if err := w.Stop(); err != nil {
			m.logger.Error("Failed to stop worker",
				zap.String("name", w.Name()),
				zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(m.shutdownTimeout)
	defer timer.Stop()

	select {
	case <-done:
		m.logger.Info("All workers stopped gracefully")
		return nil
	case <-timer.C:
		return fmt.Errorf("workers shutdown timed out after %v", m.shutdownTimeout)
	}
}
