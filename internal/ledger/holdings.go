package ledger

import (
	"github.com/trogers1052/portfolio-service/internal/models"
)

// Holdings folds the transaction log into currently open positions,
// keyed by symbol. Only symbols with strictly positive quantity appear
// in the result; a fully closed position carries no residual cost.
//
// A SELL against a symbol with no open quantity is ignored at this
// layer. Sufficient-shares validation is an admission concern; see
// ValidateSell.
func Holdings(txs []models.Transaction) map[string]models.Position {
	b := make(book)
	for _, tx := range sortedTransactions(txs) {
		switch tx.Kind {
		case models.KindBuy:
			b.buy(tx.Symbol, tx.Quantity, tx.Price, tx.Commission)
		case models.KindSell:
			b.sell(tx.Symbol, tx.Quantity)
		}
	}

	positions := make(map[string]models.Position)
	for symbol, e := range b {
		if !e.quantity.IsPositive() {
			continue
		}
		positions[symbol] = models.Position{
			Symbol:      symbol,
			Quantity:    e.quantity,
			AverageCost: e.totalCost.Div(e.quantity),
		}
	}
	return positions
}
