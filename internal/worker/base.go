package worker

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Stats - счётчики обработанных воркером сообщений
type Stats struct {
	Processed int64 `json:"processed"`
	Skipped   int64 `json:"skipped"`
}

// BaseWorker - общая часть stream-воркеров: имя, группа, остановка и счётчики
type BaseWorker struct {
	name          string
	consumerGroup string
	logger        *zap.Logger

	stopOnce sync.Once
	stopChan chan struct{}

	processed atomic.Int64
	skipped   atomic.Int64
}

func NewBaseWorker(name, consumerGroup string, logger *zap.Logger) *BaseWorker {
	return &BaseWorker{
		name:          name,
		consumerGroup: consumerGroup,
		logger:        logger.With(zap.String("worker", name)),
		stopChan:      make(chan struct{}),
	}
}

func (w *BaseWorker) Name() string { return w.name }

// Stop сигнализирует циклу обработки о завершении. Повторный вызов ничего не делает.
func (w *BaseWorker) Stop() error {
	w.stopOnce.Do(func() {
		w.logger.Info("Stopping worker")
		close(w.stopChan)
	})
	return nil
}

func (w *BaseWorker) IsStopped() bool {
	select {
	case <-w.stopChan:
		return true
	default:
		return false
	}
}

func (w *BaseWorker) StopChan() <-chan struct{} { return w.stopChan }

func (w *BaseWorker) ConsumerGroup() string { return w.consumerGroup }

func (w *BaseWorker) Logger() *zap.Logger { return w.logger }

// MarkProcessed увеличивает счётчик успешно обработанных сообщений
func (w *BaseWorker) MarkProcessed(n int) { w.processed.Add(int64(n)) }

// MarkSkipped увеличивает счётчик отброшенных сообщений
func (w *BaseWorker) MarkSkipped(n int) { w.skipped.Add(int64(n)) }

func (w *BaseWorker) Stats() Stats {
	return Stats{Processed: w.processed.Load(), Skipped: w.skipped.Load()}
}
