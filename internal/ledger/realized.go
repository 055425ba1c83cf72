package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-service/internal/models"
)

// Admission errors returned by the Validate helpers.
var (
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrInsufficientCash   = errors.New("insufficient cash")
)

// Realized holds the scalar results of replaying every completed sale
// against its average-cost basis.
type Realized struct {
	// SellRevenue is the exact sum of qty*price - commission over all
	// SELL transactions, whether or not a position backed them.
	SellRevenue decimal.Decimal
	// TotalInvested is the cost basis of positions still open after the
	// full replay, not lifetime capital deployed.
	TotalInvested decimal.Decimal
	// RealizedPnl is revenue minus cost basis over tracked sales only.
	RealizedPnl decimal.Decimal
}

// Realize replays the transaction log and reports sale revenue,
// realized profit, and the cost basis of whatever is still open.
//
// A SELL without a tracked open position still contributes its full
// revenue but nothing to RealizedPnl, understating profit in that edge
// case. That tolerance is deliberate: the admission boundary is
// expected to reject oversells up front (ValidateSell), and the replay
// stays total over whatever log it is handed.
func Realize(txs []models.Transaction) Realized {
	var r Realized
	b := make(book)

	for _, tx := range sortedTransactions(txs) {
		switch tx.Kind {
		case models.KindBuy:
			b.buy(tx.Symbol, tx.Quantity, tx.Price, tx.Commission)
		case models.KindSell:
			revenue := tx.Quantity.Mul(tx.Price).Sub(tx.Commission)
			r.SellRevenue = r.SellRevenue.Add(revenue)
			if costOfSold, tracked := b.sell(tx.Symbol, tx.Quantity); tracked {
				r.RealizedPnl = r.RealizedPnl.Add(revenue.Sub(costOfSold))
			}
		}
	}

	r.TotalInvested = b.openCost()
	return r
}

// AvailableCash is accumulated sale revenue minus everything withdrawn.
// Commissions are already netted into revenue and cost basis. The
// result can go negative if the log was admitted with an over-sized
// withdrawal; the ledger reports it rather than erroring.
func AvailableCash(txs []models.Transaction, wds []models.Withdrawal) decimal.Decimal {
	withdrawn := decimal.Zero
	for _, wd := range wds {
		withdrawn = withdrawn.Add(wd.Amount)
	}
	return Realize(txs).SellRevenue.Sub(withdrawn)
}

// ValidateSell is the strict alternative to the replay's oversell
// tolerance: it reports ErrInsufficientShares when the open position in
// symbol cannot cover quantity. Callers admitting events to the log
// should use it before appending a SELL.
func ValidateSell(txs []models.Transaction, symbol string, quantity decimal.Decimal) error {
	held := decimal.Zero
	if pos, ok := Holdings(txs)[symbol]; ok {
		held = pos.Quantity
	}
	if quantity.GreaterThan(held) {
		return fmt.Errorf("%w: selling %s %s but only %s held", ErrInsufficientShares, quantity, symbol, held)
	}
	return nil
}

// ValidateWithdrawal reports ErrInsufficientCash when amount exceeds
// the cash available from prior sales net of prior withdrawals.
func ValidateWithdrawal(txs []models.Transaction, wds []models.Withdrawal, amount decimal.Decimal) error {
	available := AvailableCash(txs, wds)
	if amount.GreaterThan(available) {
		return fmt.Errorf("%w: withdrawing %s but only %s available", ErrInsufficientCash, amount, available)
	}
	return nil
}
