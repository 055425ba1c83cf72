package models

import (
	"github.com/shopspring/decimal"
)

// Position represents a currently open holding derived from the
// transaction log. It is recomputed on every query and never persisted.
type Position struct {
	Symbol      string          `json:"symbol"`
	Quantity    decimal.Decimal `json:"quantity"`
	AverageCost decimal.Decimal `json:"average_cost"`
}

// Holding is a presentation row: an open position priced against the
// latest market snapshot.
type Holding struct {
	Symbol        string          `json:"symbol"`
	Quantity      decimal.Decimal `json:"quantity"`
	AverageCost   decimal.Decimal `json:"average_cost"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	MarketValue   decimal.Decimal `json:"market_value"`
	UnrealizedPnl decimal.Decimal `json:"unrealized_pnl"`
}

// Summary aggregates the portfolio's headline metrics. Percentage
// fields are relative to invested capital and are zero when nothing is
// invested.
type Summary struct {
	TotalInvested  decimal.Decimal `json:"total_invested"`
	PortfolioValue decimal.Decimal `json:"portfolio_value"`
	AvailableCash  decimal.Decimal `json:"available_cash"`
	RealizedPnl    decimal.Decimal `json:"realized_pnl"`
	UnrealizedPnl  decimal.Decimal `json:"unrealized_pnl"`
	RealizedPct    decimal.Decimal `json:"realized_pct"`
	UnrealizedPct  decimal.Decimal `json:"unrealized_pct"`
}
