package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-service/internal/models"
)

// HoldingsTable prices the open positions against a latest-price
// snapshot and returns presentation rows ordered by symbol. A symbol
// missing from the snapshot is priced at zero rather than failing.
func HoldingsTable(txs []models.Transaction, latestPrices map[string]decimal.Decimal) []models.Holding {
	positions := Holdings(txs)

	symbols := make([]string, 0, len(positions))
	for symbol := range positions {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	rows := make([]models.Holding, 0, len(positions))
	for _, symbol := range symbols {
		pos := positions[symbol]
		price := latestPrices[symbol]
		marketValue := pos.Quantity.Mul(price)
		costBasis := pos.Quantity.Mul(pos.AverageCost)
		rows = append(rows, models.Holding{
			Symbol:        symbol,
			Quantity:      pos.Quantity,
			AverageCost:   pos.AverageCost,
			CurrentPrice:  price,
			MarketValue:   marketValue,
			UnrealizedPnl: marketValue.Sub(costBasis),
		})
	}
	return rows
}

// Summarize composes the headline metrics for the whole portfolio from
// the event log and a latest-price snapshot. Both percentage fields are
// relative to invested capital and defined as zero when nothing is
// invested.
func Summarize(txs []models.Transaction, wds []models.Withdrawal, latestPrices map[string]decimal.Decimal) models.Summary {
	r := Realize(txs)

	withdrawn := decimal.Zero
	for _, wd := range wds {
		withdrawn = withdrawn.Add(wd.Amount)
	}

	portfolioValue := decimal.Zero
	unrealized := decimal.Zero
	for _, row := range HoldingsTable(txs, latestPrices) {
		portfolioValue = portfolioValue.Add(row.MarketValue)
		unrealized = unrealized.Add(row.UnrealizedPnl)
	}

	summary := models.Summary{
		TotalInvested:  r.TotalInvested,
		PortfolioValue: portfolioValue,
		AvailableCash:  r.SellRevenue.Sub(withdrawn),
		RealizedPnl:    r.RealizedPnl,
		UnrealizedPnl:  unrealized,
	}
	if r.TotalInvested.IsPositive() {
		summary.RealizedPct = r.RealizedPnl.Div(r.TotalInvested).Mul(oneHundred)
		summary.UnrealizedPct = unrealized.Div(r.TotalInvested).Mul(oneHundred)
	}
	return summary
}
