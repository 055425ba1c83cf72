package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/portfolio-service/internal/models"
)

// MockRepository records upserted closes for inspection
type MockRepository struct {
	closes []*models.DailyClose
	err    error
}

func (m *MockRepository) UpsertDailyClose(c *models.DailyClose) error {
	if m.err != nil {
		return m.err
	}
	m.closes = append(m.closes, c)
	return nil
}

func newTestConsumer(repo DailyCloseRepository) *Consumer {
	return &Consumer{
		repo: repo,
		log:  zerolog.Nop(),
	}
}

func priceMessage(t *testing.T, event models.PriceEvent) kafka.Message {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: data}
}

func TestProcessMessage(t *testing.T) {
	t.Run("records a daily close", func(t *testing.T) {
		repo := &MockRepository{}
		consumer := newTestConsumer(repo)

		msg := priceMessage(t, models.PriceEvent{
			EventType: models.EventPriceRecorded,
			Source:    "market-data-pipeline",
			Symbol:    "AAPL",
			Date:      "2024-01-15",
			Close:     "185.64",
			Timestamp: time.Now(),
		})

		err := consumer.processMessage(msg)
		require.NoError(t, err)

		require.Len(t, repo.closes, 1)
		close := repo.closes[0]
		assert.Equal(t, "AAPL", close.Symbol)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), close.CloseDate)
		assert.True(t, decimal.NewFromFloat(185.64).Equal(close.Close))
	})

	t.Run("ignores other event types", func(t *testing.T) {
		repo := &MockRepository{}
		consumer := newTestConsumer(repo)

		msg := priceMessage(t, models.PriceEvent{
			EventType: "SPLIT_RECORDED",
			Symbol:    "AAPL",
			Date:      "2024-01-15",
			Close:     "185.64",
		})

		err := consumer.processMessage(msg)
		require.NoError(t, err)
		assert.Empty(t, repo.closes)
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		consumer := newTestConsumer(&MockRepository{})

		err := consumer.processMessage(kafka.Message{Value: []byte("not json")})
		assert.Error(t, err)
	})

	t.Run("rejects missing symbol", func(t *testing.T) {
		repo := &MockRepository{}
		consumer := newTestConsumer(repo)

		msg := priceMessage(t, models.PriceEvent{
			EventType: models.EventPriceRecorded,
			Date:      "2024-01-15",
			Close:     "185.64",
		})

		err := consumer.processMessage(msg)
		assert.Error(t, err)
		assert.Empty(t, repo.closes)
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		consumer := newTestConsumer(&MockRepository{})

		msg := priceMessage(t, models.PriceEvent{
			EventType: models.EventPriceRecorded,
			Symbol:    "AAPL",
			Date:      "15/01/2024",
			Close:     "185.64",
		})

		err := consumer.processMessage(msg)
		assert.Error(t, err)
	})

	t.Run("rejects negative close", func(t *testing.T) {
		consumer := newTestConsumer(&MockRepository{})

		msg := priceMessage(t, models.PriceEvent{
			EventType: models.EventPriceRecorded,
			Symbol:    "AAPL",
			Date:      "2024-01-15",
			Close:     "-1.00",
		})

		err := consumer.processMessage(msg)
		assert.Error(t, err)
	})

	t.Run("surfaces repository errors", func(t *testing.T) {
		repo := &MockRepository{err: assert.AnError}
		consumer := newTestConsumer(repo)

		msg := priceMessage(t, models.PriceEvent{
			EventType: models.EventPriceRecorded,
			Symbol:    "AAPL",
			Date:      "2024-01-15",
			Close:     "185.64",
		})

		err := consumer.processMessage(msg)
		assert.Error(t, err)
	})
}
