package dto

import "github.com/ev-spark-hub/internal/domain"

// CoinsRequest - начисление или списание монет
type CoinsRequest struct {
	Amount      int64  `json:"amount" validate:"required,gt=0,max=1000000"`
	Description string `json:"description" validate:"omitempty,max=200"`
}

// BalanceResponse - баланс Spark Coins
type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

// HistoryResponse - история операций, новые первыми
type HistoryResponse struct {
	UserID  string               `json:"user_id"`
	Balance int64                `json:"balance"`
	History []domain.LedgerEntry `json:"history"`
}

// SpendResponse - результат списания
type SpendResponse struct {
	Success bool  `json:"success"`
	Balance int64 `json:"balance"`
}
