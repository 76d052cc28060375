package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type loopWorker struct {
	*BaseWorker
	started chan struct{}
}

func newLoopWorker(name string) *loopWorker {
	return &loopWorker{
		BaseWorker: NewBaseWorker(name, "test-group", zap.NewNop()),
		started:    make(chan struct{}),
	}
}

func (w *loopWorker) Start(ctx context.Context) error {
	close(w.started)
	w.MarkProcessed(2)
	w.MarkSkipped(1)
	select {
	case <-w.StopChan():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type stuckWorker struct {
	*BaseWorker
}

func (w *stuckWorker) Start(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestManager_StartRequiresWorkers(t *testing.T) {
	m := NewManager(time.Second, zap.NewNop())
	assert.Error(t, m.Start(context.Background()))
}

func TestManager_StartAndStop(t *testing.T) {
	m := NewManager(time.Second, zap.NewNop())
	a, b := newLoopWorker("a"), newLoopWorker("b")
	m.Register(a)
	m.Register(b)

	require.NoError(t, m.Start(context.Background()))
	for _, w := range []*loopWorker{a, b} {
		select {
		case <-w.started:
		case <-time.After(time.Second):
			t.Fatalf("worker %s did not start", w.Name())
		}
	}

	stats := m.Stats()
	assert.Equal(t, Stats{Processed: 2, Skipped: 1}, stats["a"])

	require.NoError(t, m.Stop())
	assert.True(t, a.IsStopped())
	assert.True(t, b.IsStopped())

	// повторная остановка безопасна
	assert.NoError(t, a.Stop())
}

func TestManager_StopTimesOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager(50*time.Millisecond, zap.NewNop())
	m.Register(&stuckWorker{BaseWorker: NewBaseWorker("stuck", "g", zap.NewNop())})
	require.NoError(t, m.Start(ctx))

	assert.Error(t, m.Stop())
}
