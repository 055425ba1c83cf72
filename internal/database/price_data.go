package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/trogers1052/portfolio-service/internal/models"
)

// UpsertDailyClose inserts or replaces the closing price for a symbol
// and day. Feeding the same close twice is a no-op, which keeps the
// price consumer idempotent across redeliveries.
func (db *DB) UpsertDailyClose(c *models.DailyClose) error {
	query := `
		INSERT INTO price_data_daily (symbol, close_date, close, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (symbol, close_date) DO UPDATE SET
			close = EXCLUDED.close
		RETURNING id
	`
	err := db.conn.QueryRow(query, c.Symbol, c.CloseDate, c.Close, time.Now()).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert daily close: %w", err)
	}
	return nil
}

// GetDailyCloses retrieves closes for the given symbols from startDate
// onward, ordered by date then symbol.
func (db *DB) GetDailyCloses(symbols []string, startDate time.Time) ([]models.DailyClose, error) {
	query := `
		SELECT id, symbol, close_date, close, created_at
		FROM price_data_daily
		WHERE symbol = ANY($1) AND close_date >= $2
		ORDER BY close_date ASC, symbol ASC
	`
	rows, err := db.conn.Query(query, pq.Array(symbols), startDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily closes: %w", err)
	}
	defer rows.Close()

	var closes []models.DailyClose
	for rows.Next() {
		var c models.DailyClose
		if err := rows.Scan(&c.ID, &c.Symbol, &c.CloseDate, &c.Close, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan daily close: %w", err)
		}
		closes = append(closes, c)
	}

	return closes, nil
}

// GetLatestDailyClose retrieves the most recent close for a symbol.
func (db *DB) GetLatestDailyClose(symbol string) (*models.DailyClose, error) {
	query := `
		SELECT id, symbol, close_date, close, created_at
		FROM price_data_daily
		WHERE symbol = $1
		ORDER BY close_date DESC
		LIMIT 1
	`
	var c models.DailyClose
	err := db.conn.QueryRow(query, symbol).Scan(&c.ID, &c.Symbol, &c.CloseDate, &c.Close, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no daily closes for %s", symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest daily close: %w", err)
	}
	return &c, nil
}

// DeleteDailyClosesOlderThan removes closes older than the given date.
func (db *DB) DeleteDailyClosesOlderThan(date time.Time) (int64, error) {
	query := `DELETE FROM price_data_daily WHERE close_date < $1`
	result, err := db.conn.Exec(query, date)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old daily closes: %w", err)
	}
	return result.RowsAffected()
}
