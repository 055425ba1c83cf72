package ledger

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-service/internal/models"
)

var oneHundred = decimal.NewFromInt(100)

// DateKey formats a time as the YYYY-MM-DD key used by price tables.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// PriceHistory is the externally supplied daily price table the replay
// is valued against. Dates is the ascending valuation index; Closes
// maps symbol -> DateKey -> closing price; Benchmark optionally maps
// DateKey -> reference index close.
type PriceHistory struct {
	Dates     []time.Time
	Closes    map[string]map[string]decimal.Decimal
	Benchmark map[string]decimal.Decimal
}

// NAVPoint is one day of the reconstructed return series.
// BenchmarkReturnPct is nil on days the benchmark has no close.
type NAVPoint struct {
	Date               time.Time        `json:"date"`
	PortfolioReturnPct decimal.Decimal  `json:"portfolio_return_pct"`
	BenchmarkReturnPct *decimal.Decimal `json:"benchmark_return_pct,omitempty"`
}

// event is one entry of the merged transaction+withdrawal stream.
type event struct {
	date time.Time
	tx   *models.Transaction
	wd   *models.Withdrawal
}

// mergeEvents interleaves the two logs in chronological order. Within a
// day, transactions keep their insertion order and precede withdrawals;
// day-end state does not depend on the intra-day position of a
// withdrawal, which only moves cash.
func mergeEvents(txs []models.Transaction, wds []models.Withdrawal) []event {
	stxs := sortedTransactions(txs)
	swds := sortedWithdrawals(wds)

	events := make([]event, 0, len(stxs)+len(swds))
	i, j := 0, 0
	for i < len(stxs) || j < len(swds) {
		switch {
		case j >= len(swds):
			events = append(events, event{date: dateOnly(stxs[i].TradeDate), tx: &stxs[i]})
			i++
		case i >= len(stxs):
			events = append(events, event{date: dateOnly(swds[j].WithdrawalDate), wd: &swds[j]})
			j++
		case dateOnly(swds[j].WithdrawalDate).Before(dateOnly(stxs[i].TradeDate)):
			events = append(events, event{date: dateOnly(swds[j].WithdrawalDate), wd: &swds[j]})
			j++
		default:
			events = append(events, event{date: dateOnly(stxs[i].TradeDate), tx: &stxs[i]})
			i++
		}
	}
	return events
}

// History reconstructs the daily percentage-return series of the
// portfolio over the price table's date index, alongside the benchmark
// index's own return series.
//
// For each priced date the replay values the positions open on that
// date at that date's closes (a missing close contributes zero for that
// day only), adds accumulated cash, and expresses net worth relative to
// the capital then invested. Running state is carried forward between
// consecutive dates, so the pass is O(dates + events) while producing
// exactly the state a from-scratch refold of all events on or before
// each date would.
//
// The benchmark series is computed independently of the portfolio,
// anchored to the first non-missing benchmark close in the table.
//
// An empty transaction log or empty price table yields an empty series,
// never an error: the caller renders an informational state instead.
func History(txs []models.Transaction, wds []models.Withdrawal, prices PriceHistory) []NAVPoint {
	if len(txs) == 0 || len(prices.Dates) == 0 {
		return nil
	}

	events := mergeEvents(txs, wds)

	var benchmarkAnchor decimal.Decimal
	haveAnchor := false
	for _, d := range prices.Dates {
		if close, ok := prices.Benchmark[DateKey(d)]; ok && close.IsPositive() {
			benchmarkAnchor = close
			haveAnchor = true
			break
		}
	}

	b := make(book)
	cash := decimal.Zero
	next := 0

	series := make([]NAVPoint, 0, len(prices.Dates))
	for _, day := range prices.Dates {
		cutoff := dateOnly(day)
		for next < len(events) && !events[next].date.After(cutoff) {
			e := events[next]
			switch {
			case e.tx != nil && e.tx.Kind == models.KindBuy:
				b.buy(e.tx.Symbol, e.tx.Quantity, e.tx.Price, e.tx.Commission)
			case e.tx != nil && e.tx.Kind == models.KindSell:
				cash = cash.Add(e.tx.Quantity.Mul(e.tx.Price).Sub(e.tx.Commission))
				b.sell(e.tx.Symbol, e.tx.Quantity)
			case e.wd != nil:
				cash = cash.Sub(e.wd.Amount)
			}
			next++
		}

		stockValue := decimal.Zero
		invested := decimal.Zero
		key := DateKey(day)
		for symbol, entry := range b {
			if !entry.quantity.IsPositive() {
				continue
			}
			if close, ok := prices.Closes[symbol][key]; ok {
				stockValue = stockValue.Add(entry.quantity.Mul(close))
			}
			invested = invested.Add(entry.totalCost)
		}

		netWorth := stockValue.Add(cash)
		returnPct := decimal.Zero
		if invested.IsPositive() {
			returnPct = netWorth.Sub(invested).Div(invested).Mul(oneHundred)
		}

		point := NAVPoint{Date: cutoff, PortfolioReturnPct: returnPct}
		if haveAnchor {
			if close, ok := prices.Benchmark[key]; ok {
				pct := close.Sub(benchmarkAnchor).Div(benchmarkAnchor).Mul(oneHundred)
				point.BenchmarkReturnPct = &pct
			}
		}
		series = append(series, point)
	}

	return series
}
