package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/ev-spark-hub/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	balanceKeyPrefix = "sparkCoins:"
	historyKeyPrefix = "coinHistory:"
)

type ledgerRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewLedgerRepository создает Redis хранилище Spark Coins.
// Баланс хранится в sparkCoins:<user>, история (JSON, новые первыми) в coinHistory:<user>.
func NewLedgerRepository(redis *Redis) repository.LedgerRepository {
	return &ledgerRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *ledgerRepository) Load(ctx context.Context, userID string) (*domain.Ledger, error) {
	var balanceCmd, historyCmd *redis.StringCmd
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		balanceCmd = pipe.Get(ctx, balanceKeyPrefix+userID)
		historyCmd = pipe.Get(ctx, historyKeyPrefix+userID)
		return nil
	})
	if err != nil && err != redis.Nil {
		r.logger.Error("Failed to load ledger", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	balanceRaw, balanceErr := balanceCmd.Result()
	historyRaw, historyErr := historyCmd.Result()
	if balanceErr == redis.Nil && historyErr == redis.Nil {
		return nil, nil
	}

	ledger := &domain.Ledger{UserID: userID, History: []domain.LedgerEntry{}}

	if historyErr == nil && historyRaw != "" {
		if err := json.Unmarshal([]byte(historyRaw), &ledger.History); err != nil {
			r.logger.Error("Failed to unmarshal coin history", zap.String("user_id", userID), zap.Error(err))
			return nil, fmt.Errorf("unmarshal coin history: %w", err)
		}
	}

	if balanceErr == nil {
		balance, err := strconv.ParseInt(balanceRaw, 10, 64)
		if err != nil {
			r.logger.Warn("Corrupted balance, recomputing from history",
				zap.String("user_id", userID),
				zap.String("raw", balanceRaw))
			balance = ledger.Sum()
		}
		ledger.Balance = balance
	} else {
		ledger.Balance = ledger.Sum()
	}

	return ledger, nil
}

func (r *ledgerRepository) Save(ctx context.Context, ledger *domain.Ledger) error {
	history := ledger.History
	if history == nil {
		history = []domain.LedgerEntry{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshal coin history: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, balanceKeyPrefix+ledger.UserID, strconv.FormatInt(ledger.Balance, 10), 0)
		pipe.Set(ctx, historyKeyPrefix+ledger.UserID, data, 0)
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to save ledger", zap.String("user_id", ledger.UserID), zap.Error(err))
		return fmt.Errorf("save ledger: %w", err)
	}

	return nil
}

func (r *ledgerRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, balanceKeyPrefix+userID, historyKeyPrefix+userID).Err(); err != nil {
		r.logger.Error("Failed to delete ledger", zap.String("user_id", userID), zap.Error(err))
		return fmt.Errorf("delete ledger: %w", err)
	}
	return nil
}
