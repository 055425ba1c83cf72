package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/trogers1052/portfolio-service/internal/models"
)

// CreateWithdrawal appends a withdrawal to a user's log.
func (db *DB) CreateWithdrawal(w *models.Withdrawal) error {
	query := `
		INSERT INTO withdrawals (user_id, amount, withdrawal_date, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	now := time.Now()
	withdrawalDate := w.WithdrawalDate
	if withdrawalDate.IsZero() {
		withdrawalDate = now
	}

	err := db.conn.QueryRow(query, w.UserID, w.Amount, withdrawalDate, now).Scan(&w.ID)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	w.WithdrawalDate = withdrawalDate
	w.CreatedAt = now
	return nil
}

// GetWithdrawalByID retrieves a single withdrawal.
func (db *DB) GetWithdrawalByID(id int) (*models.Withdrawal, error) {
	query := `
		SELECT id, user_id, amount, withdrawal_date, created_at
		FROM withdrawals
		WHERE id = $1
	`
	var w models.Withdrawal
	err := db.conn.QueryRow(query, id).Scan(&w.ID, &w.UserID, &w.Amount, &w.WithdrawalDate, &w.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("withdrawal not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal: %w", err)
	}
	return &w, nil
}

// GetWithdrawalsByUser retrieves a user's withdrawals in chronological
// order, ties broken by insertion order.
func (db *DB) GetWithdrawalsByUser(userID int) ([]models.Withdrawal, error) {
	query := `
		SELECT id, user_id, amount, withdrawal_date, created_at
		FROM withdrawals
		WHERE user_id = $1
		ORDER BY withdrawal_date ASC, id ASC
	`
	rows, err := db.conn.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query withdrawals: %w", err)
	}
	defer rows.Close()

	var wds []models.Withdrawal
	for rows.Next() {
		var w models.Withdrawal
		if err := rows.Scan(&w.ID, &w.UserID, &w.Amount, &w.WithdrawalDate, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal: %w", err)
		}
		wds = append(wds, w)
	}

	return wds, nil
}

// DeleteWithdrawal removes a withdrawal from a user's log.
func (db *DB) DeleteWithdrawal(id, userID int) error {
	query := `DELETE FROM withdrawals WHERE id = $1 AND user_id = $2`
	result, err := db.conn.Exec(query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete withdrawal: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("withdrawal not found: %d", id)
	}
	return nil
}
