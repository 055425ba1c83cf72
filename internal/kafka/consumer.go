package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-service/internal/models"
)

// DailyCloseRepository defines the price store the consumer writes into
type DailyCloseRepository interface {
	UpsertDailyClose(c *models.DailyClose) error
}

// Consumer ingests daily closing prices published by the upstream
// market-data pipeline. Upserts keyed on (symbol, date) make
// redelivered messages harmless.
type Consumer struct {
	reader *kafka.Reader
	repo   DailyCloseRepository
	log    zerolog.Logger
}

// NewConsumer creates a Kafka consumer for price events
func NewConsumer(brokers []string, topic, groupID string, repo DailyCloseRepository, log zerolog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return &Consumer{
		reader: reader,
		repo:   repo,
		log:    log.With().Str("component", "price-consumer").Logger(),
	}
}

// Start consumes messages until the context is cancelled
func (c *Consumer) Start(ctx context.Context) error {
	c.log.Info().Str("topic", c.reader.Config().Topic).Msg("starting price consumer")

	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("price consumer shutting down")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil // Context cancelled, normal shutdown
				}
				c.log.Error().Err(err).Msg("failed to read message")
				continue
			}

			if err := c.processMessage(msg); err != nil {
				c.log.Error().Err(err).Msg("failed to process message")
				// Continue processing other messages
			}
		}
	}
}

func (c *Consumer) processMessage(msg kafka.Message) error {
	var event models.PriceEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal price event: %w", err)
	}

	if event.EventType != models.EventPriceRecorded {
		c.log.Debug().Str("event_type", event.EventType).Msg("ignoring event")
		return nil
	}

	dailyClose, err := c.convertEvent(event)
	if err != nil {
		return fmt.Errorf("failed to convert price event: %w", err)
	}

	if err := c.repo.UpsertDailyClose(dailyClose); err != nil {
		return fmt.Errorf("failed to save daily close: %w", err)
	}

	c.log.Debug().
		Str("symbol", dailyClose.Symbol).
		Str("date", event.Date).
		Str("close", dailyClose.Close.String()).
		Msg("recorded daily close")
	return nil
}

func (c *Consumer) convertEvent(event models.PriceEvent) (*models.DailyClose, error) {
	if event.Symbol == "" {
		return nil, fmt.Errorf("price event missing symbol")
	}

	date, err := time.Parse("2006-01-02", event.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", event.Date, err)
	}

	price, err := decimal.NewFromString(event.Close)
	if err != nil {
		return nil, fmt.Errorf("invalid close %q: %w", event.Close, err)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("negative close %s for %s", event.Close, event.Symbol)
	}

	return &models.DailyClose{
		Symbol:    event.Symbol,
		CloseDate: date,
		Close:     price,
	}, nil
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}
