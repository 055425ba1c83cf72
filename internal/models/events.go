package models

import "time"

// Price event types consumed from the market-data pipeline
const (
	EventPriceRecorded = "PRICE_RECORDED"
)

// Ledger event types published after admission
const (
	EventTransactionRecorded = "TRANSACTION_RECORDED"
	EventTransactionDeleted  = "TRANSACTION_DELETED"
	EventWithdrawalRecorded  = "WITHDRAWAL_RECORDED"
)

// PriceEvent is a Kafka message carrying one daily close from an
// upstream price feed. Decimal values travel as strings, matching the
// feed's JSON encoding.
type PriceEvent struct {
	EventType string    `json:"event_type"`
	Source    string    `json:"source"`
	Symbol    string    `json:"symbol"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Close     string    `json:"close"`
	Timestamp time.Time `json:"timestamp"`
}

// LedgerEvent is published whenever the ledger's event log changes, so
// audit consumers can follow along.
type LedgerEvent struct {
	EventType   string       `json:"event_type"`
	UserID      int          `json:"user_id"`
	Transaction *Transaction `json:"transaction,omitempty"`
	Withdrawal  *Withdrawal  `json:"withdrawal,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}
