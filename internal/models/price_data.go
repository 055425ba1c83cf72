package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyClose represents one closing price for a symbol on a calendar
// day. The historical replay only ever consumes closes, so no other
// candle fields are stored.
type DailyClose struct {
	ID        int             `json:"id"`
	Symbol    string          `json:"symbol"`
	CloseDate time.Time       `json:"close_date"`
	Close     decimal.Decimal `json:"close"`
	CreatedAt time.Time       `json:"created_at"`
}
