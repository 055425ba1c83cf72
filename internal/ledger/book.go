// Package ledger turns an immutable transaction/withdrawal log into
// holdings, realized profit, summary metrics, and a daily net-worth
// series. Every function recomputes from the full log it is handed:
// identical inputs always produce identical outputs, and nothing here
// mutates its arguments or keeps state between calls.
//
// Money and quantities are decimals throughout. No rounding is applied;
// rounding for display belongs to the presentation layer.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-service/internal/models"
)

// book tracks per-symbol running quantity and total cost during a fold.
type book map[string]*bookEntry

type bookEntry struct {
	quantity  decimal.Decimal
	totalCost decimal.Decimal
}

func (b book) entry(symbol string) *bookEntry {
	e, ok := b[symbol]
	if !ok {
		e = &bookEntry{}
		b[symbol] = e
	}
	return e
}

// buy blends the purchase into the symbol's average-cost basis.
func (b book) buy(symbol string, quantity, price, commission decimal.Decimal) {
	e := b.entry(symbol)
	e.quantity = e.quantity.Add(quantity)
	e.totalCost = e.totalCost.Add(quantity.Mul(price).Add(commission))
}

// sell reduces the tracked position at its blended average cost and
// reports the cost basis of the shares sold. A sell against a missing
// or zero-quantity position is not tracked: it returns false and leaves
// the book untouched.
func (b book) sell(symbol string, quantity decimal.Decimal) (decimal.Decimal, bool) {
	e, ok := b[symbol]
	if !ok || !e.quantity.IsPositive() {
		return decimal.Zero, false
	}
	avg := e.totalCost.Div(e.quantity)
	costOfSold := avg.Mul(quantity)
	e.quantity = e.quantity.Sub(quantity)
	e.totalCost = e.totalCost.Sub(costOfSold)
	return costOfSold, true
}

// openCost sums the cost basis of positions whose quantity is still
// positive, i.e. invested capital in currently open lots.
func (b book) openCost() decimal.Decimal {
	total := decimal.Zero
	for _, e := range b {
		if e.quantity.IsPositive() {
			total = total.Add(e.totalCost)
		}
	}
	return total
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// sortedTransactions returns a copy of the log in chronological order.
// The sort is stable so same-day entries keep their insertion order.
// Sorting here, rather than trusting the caller, is what keeps
// backdated corrections from silently corrupting every fold.
func sortedTransactions(txs []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		return dateOnly(out[i].TradeDate).Before(dateOnly(out[j].TradeDate))
	})
	return out
}

func sortedWithdrawals(wds []models.Withdrawal) []models.Withdrawal {
	out := make([]models.Withdrawal, len(wds))
	copy(out, wds)
	sort.SliceStable(out, func(i, j int) bool {
		return dateOnly(out[i].WithdrawalDate).Before(dateOnly(out[j].WithdrawalDate))
	})
	return out
}
