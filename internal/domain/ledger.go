package domain

import "time"

// LedgerEntryType - тип записи в истории Spark Coins
type LedgerEntryType string

const (
	LedgerEarned LedgerEntryType = "earned"
	LedgerSpent  LedgerEntryType = "spent"
)

const (
	// GuestUserID - идентификатор анонимного пользователя
	GuestUserID = "guest"

	WelcomeBonusDescription  = "Welcome bonus"
	DefaultEarnDescription   = "Coins earned"
	DefaultSpendDescription  = "Coins spent"
	PaymentRewardDescription = "UPI payment"
)

// MaxCoinAmount - максимальная сумма одной операции начисления или списания
const MaxCoinAmount int64 = 1_000_000

// LedgerEntry - неизменяемая запись истории монет. Amount со знаком: списания отрицательны.
type LedgerEntry struct {
	ID          string          `json:"id"`
	Amount      int64           `json:"amount"`
	Type        LedgerEntryType `json:"type"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Ledger - баланс и история пользователя. History хранится в порядке "новые первыми".
type Ledger struct {
	UserID  string        `json:"user_id"`
	Balance int64         `json:"balance"`
	History []LedgerEntry `json:"history"`
}

// Sum возвращает сумму всех записей истории
func (l *Ledger) Sum() int64 {
	var total int64
	for _, e := range l.History {
		total += e.Amount
	}
	return total
}
