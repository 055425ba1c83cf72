package database

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/portfolio-service/internal/models"
)

func TestTransactionsRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	t.Run("CreateTransaction appends to the log", func(t *testing.T) {
		testDB.TruncateAll(t)
		user := createTestUser(t, testDB, "alice")

		tx := &models.Transaction{
			UserID:     user.ID,
			Kind:       models.KindBuy,
			Symbol:     "NVDA",
			Quantity:   decimal.NewFromFloat(10),
			Price:      decimal.NewFromFloat(100.00),
			Commission: decimal.NewFromFloat(1.50),
			TradeDate:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		}

		err := testDB.CreateTransaction(tx)
		require.NoError(t, err)
		assert.NotZero(t, tx.ID)
		assert.False(t, tx.CreatedAt.IsZero())
	})

	t.Run("CreateTransaction defaults trade date to now", func(t *testing.T) {
		testDB.TruncateAll(t)
		user := createTestUser(t, testDB, "alice")

		tx := &models.Transaction{
			UserID:   user.ID,
			Kind:     models.KindBuy,
			Symbol:   "AAPL",
			Quantity: decimal.NewFromFloat(1),
			Price:    decimal.NewFromFloat(180.00),
		}

		err := testDB.CreateTransaction(tx)
		require.NoError(t, err)
		assert.False(t, tx.TradeDate.IsZero())
	})

	t.Run("GetTransactionByID retrieves transaction", func(t *testing.T) {
		testDB.TruncateAll(t)
		user := createTestUser(t, testDB, "alice")

		tx := &models.Transaction{
			UserID:    user.ID,
			Kind:      models.KindSell,
			Symbol:    "MSFT",
			Quantity:  decimal.NewFromFloat(5),
			Price:     decimal.NewFromFloat(370.00),
			TradeDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, testDB.CreateTransaction(tx))

		retrieved, err := testDB.GetTransactionByID(tx.ID)
		require.NoError(t, err)
		assert.Equal(t, models.KindSell, retrieved.Kind)
		assert.Equal(t, "MSFT", retrieved.Symbol)
		assert.True(t, decimal.NewFromFloat(5).Equal(retrieved.Quantity))
	})

	t.Run("GetTransactionsByUser returns chronological log", func(t *testing.T) {
		testDB.TruncateAll(t)
		user := createTestUser(t, testDB, "alice")

		// Inserted out of date order on purpose.
		dates := []time.Time{
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		}
		for _, d := range dates {
			tx := &models.Transaction{
				UserID:    user.ID,
				Kind:      models.KindBuy,
				Symbol:    "NVDA",
				Quantity:  decimal.NewFromFloat(1),
				Price:     decimal.NewFromFloat(100.00),
				TradeDate: d,
			}
			require.NoError(t, testDB.CreateTransaction(tx))
		}

		txs, err := testDB.GetTransactionsByUser(user.ID)
		require.NoError(t, err)
		require.Len(t, txs, 3)
		assert.True(t, txs[0].TradeDate.Before(txs[1].TradeDate))
		assert.True(t, txs[1].TradeDate.Before(txs[2].TradeDate))
	})

	t.Run("GetTransactionsByUser scopes to the user", func(t *testing.T) {
		testDB.TruncateAll(t)
		alice := createTestUser(t, testDB, "alice")
		bob := createTestUser(t, testDB, "bob")

		tx := &models.Transaction{
			UserID:    alice.ID,
			Kind:      models.KindBuy,
			Symbol:    "NVDA",
			Quantity:  decimal.NewFromFloat(1),
			Price:     decimal.NewFromFloat(100.00),
			TradeDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, testDB.CreateTransaction(tx))

		txs, err := testDB.GetTransactionsByUser(bob.ID)
		require.NoError(t, err)
		assert.Empty(t, txs)
	})

	t.Run("DeleteTransaction removes a row", func(t *testing.T) {
		testDB.TruncateAll(t)
		user := createTestUser(t, testDB, "alice")

		tx := &models.Transaction{
			UserID:    user.ID,
			Kind:      models.KindBuy,
			Symbol:    "NVDA",
			Quantity:  decimal.NewFromFloat(1),
			Price:     decimal.NewFromFloat(100.00),
			TradeDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, testDB.CreateTransaction(tx))

		require.NoError(t, testDB.DeleteTransaction(tx.ID, user.ID))

		_, err := testDB.GetTransactionByID(tx.ID)
		require.Error(t, err)
	})

	t.Run("DeleteTransaction refuses another user's row", func(t *testing.T) {
		testDB.TruncateAll(t)
		alice := createTestUser(t, testDB, "alice")
		bob := createTestUser(t, testDB, "bob")

		tx := &models.Transaction{
			UserID:    alice.ID,
			Kind:      models.KindBuy,
			Symbol:    "NVDA",
			Quantity:  decimal.NewFromFloat(1),
			Price:     decimal.NewFromFloat(100.00),
			TradeDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, testDB.CreateTransaction(tx))

		err := testDB.DeleteTransaction(tx.ID, bob.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}
