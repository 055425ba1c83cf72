package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction kind constants
const (
	KindBuy  = "BUY"
	KindSell = "SELL"
)

// Transaction represents a single buy or sell recorded in the ledger.
// Records are append-only: the stores insert and delete whole rows but
// never update one in place.
type Transaction struct {
	ID         int             `json:"id"`
	UserID     int             `json:"user_id"`
	Kind       string          `json:"kind"`
	Symbol     string          `json:"symbol"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Commission decimal.Decimal `json:"commission"`
	TradeDate  time.Time       `json:"trade_date"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Withdrawal represents cash taken out of accumulated sale proceeds.
// It shares the event stream with transactions during historical replay
// but is a distinct record type.
type Withdrawal struct {
	ID             int             `json:"id"`
	UserID         int             `json:"user_id"`
	Amount         decimal.Decimal `json:"amount"`
	WithdrawalDate time.Time       `json:"withdrawal_date"`
	CreatedAt      time.Time       `json:"created_at"`
}
