package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/trogers1052/portfolio-service/internal/models"
)

// CreateTransaction appends a transaction to a user's log.
func (db *DB) CreateTransaction(t *models.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, kind, symbol, quantity, price, commission, trade_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	now := time.Now()
	tradeDate := t.TradeDate
	if tradeDate.IsZero() {
		tradeDate = now
	}

	err := db.conn.QueryRow(query,
		t.UserID, t.Kind, t.Symbol, t.Quantity, t.Price, t.Commission, tradeDate, now,
	).Scan(&t.ID)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	t.TradeDate = tradeDate
	t.CreatedAt = now
	return nil
}

// GetTransactionByID retrieves a single transaction.
func (db *DB) GetTransactionByID(id int) (*models.Transaction, error) {
	query := `
		SELECT id, user_id, kind, symbol, quantity, price, commission, trade_date, created_at
		FROM transactions
		WHERE id = $1
	`
	var t models.Transaction
	err := db.conn.QueryRow(query, id).Scan(
		&t.ID, &t.UserID, &t.Kind, &t.Symbol, &t.Quantity, &t.Price, &t.Commission, &t.TradeDate, &t.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &t, nil
}

// GetTransactionsByUser retrieves a user's full transaction log in
// chronological order, ties broken by insertion order. Each call reads
// one consistent snapshot for the ledger to fold.
func (db *DB) GetTransactionsByUser(userID int) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, kind, symbol, quantity, price, commission, trade_date, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY trade_date ASC, id ASC
	`
	rows, err := db.conn.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(
			&t.ID, &t.UserID, &t.Kind, &t.Symbol, &t.Quantity, &t.Price, &t.Commission, &t.TradeDate, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}

	return txs, nil
}

// DeleteTransaction removes a transaction from a user's log.
func (db *DB) DeleteTransaction(id, userID int) error {
	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`
	result, err := db.conn.Exec(query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("transaction not found: %d", id)
	}
	return nil
}
