package prefetch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/ev-spark-hub/internal/domain/repository"
	"github.com/ev-spark-hub/internal/pkg/utils"
	"github.com/ev-spark-hub/internal/worker"
	"go.uber.org/zap"
)

const (
	maxBatchSize = 20 // максимум сообщений за раз
	errorPause   = time.Second
)

// StationPrefetchWorker прогревает кеш Overpass по событиям stream:stations:prefetch
type StationPrefetchWorker struct {
	*worker.BaseWorker
	streamRepo    repository.StreamRepository
	geo           repository.GeoSource
	consumerName  string
	readTimeout   time.Duration
	defaultRadius float64
	maxRetries    int
}

// NewStationPrefetchWorker создает новый StationPrefetchWorker
func NewStationPrefetchWorker(
	streamRepo repository.StreamRepository,
	geo repository.GeoSource,
	consumerGroup string,
	readTimeout time.Duration,
	defaultRadius float64,
	maxRetries int,
	logger *zap.Logger,
) *StationPrefetchWorker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	if maxRetries <= 0 {
		maxRetries = 1
	}

	return &StationPrefetchWorker{
		BaseWorker:    worker.NewBaseWorker("station-prefetch", consumerGroup, logger),
		streamRepo:    streamRepo,
		geo:           geo,
		consumerName:  consumerName,
		readTimeout:   readTimeout,
		defaultRadius: defaultRadius,
		maxRetries:    maxRetries,
	}
}

// Start запускает воркер
func (w *StationPrefetchWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting StationPrefetchWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("max_batch_size", maxBatchSize))

	if err := w.ensureGroup(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			if _, err := w.processBatch(ctx); err != nil {
				if ctx.Err() != nil {
					continue
				}
				logger.Error("Failed to process batch", zap.Error(err))
				w.pause(ctx, errorPause)
			}
		}
	}
}

// ensureGroup создаёт consumer group, повторяя попытку до maxRetries раз
func (w *StationPrefetchWorker) ensureGroup(ctx context.Context) error {
	var err error
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		if err = w.streamRepo.CreateConsumerGroup(ctx, domain.StreamStationsPrefetch, w.ConsumerGroup()); err == nil {
			return nil
		}
		w.Logger().Warn("Failed to create consumer group",
			zap.Int("attempt", attempt),
			zap.Error(err))
		if attempt < w.maxRetries {
			w.pause(ctx, time.Duration(attempt)*errorPause)
		}
	}
	return fmt.Errorf("failed to create consumer group: %w", err)
}

func (w *StationPrefetchWorker) pause(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	case <-w.StopChan():
	}
}

// processBatch читает и обрабатывает пачку сообщений.
// Возвращает количество прочитанных сообщений.
func (w *StationPrefetchWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamStationsPrefetch,
		w.ConsumerGroup(),
		w.consumerName,
		maxBatchSize,
		w.readTimeout,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	// одинаковые области в одной пачке запрашиваем один раз
	seen := make(map[string]struct{}, len(messages))
	ids := make([]string, 0, len(messages))
	warmed := 0

	for _, msg := range messages {
		ids = append(ids, msg.ID)

		event, err := parseMessage(msg)
		if err != nil {
			logger.Warn("Skipping malformed prefetch message",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			w.MarkSkipped(1)
			continue
		}

		radius := utils.NormalizeRadius(event.RadiusKm, w.defaultRadius)
		key := fmt.Sprintf("%s:%g", utils.CoordinateKey(event.Lat, event.Lon), radius)
		if _, dup := seen[key]; dup {
			w.MarkSkipped(1)
			continue
		}
		seen[key] = struct{}{}

		stations := w.geo.FindChargingStations(ctx, event.Lat, event.Lon, radius)
		warmed++
		w.MarkProcessed(1)
		logger.Debug("Prefetched stations",
			zap.Float64("lat", event.Lat),
			zap.Float64("lon", event.Lon),
			zap.Float64("radius_km", radius),
			zap.Int("count", len(stations)))
	}

	// битые сообщения тоже подтверждаем, чтобы не застревали в PEL
	if err := w.streamRepo.AckMessages(ctx, domain.StreamStationsPrefetch, w.ConsumerGroup(), ids...); err != nil {
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	logger.Info("Prefetch batch processed",
		zap.Int("messages", len(messages)),
		zap.Int("areas", warmed))

	return len(messages), nil
}

func parseMessage(msg domain.StreamMessage) (*domain.StationPrefetchEvent, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("missing 'data' field")
	}

	var event domain.StationPrefetchEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if !event.Valid() {
		return nil, fmt.Errorf("invalid coordinates %f,%f", event.Lat, event.Lon)
	}
	return &event, nil
}
