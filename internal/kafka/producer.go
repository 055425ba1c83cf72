package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/trogers1052/portfolio-service/internal/models"
)

// Producer publishes ledger audit events after admission
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishTransactionRecorded publishes an event for an admitted transaction
func (p *Producer) PublishTransactionRecorded(ctx context.Context, tx *models.Transaction) error {
	event := models.LedgerEvent{
		EventType:   models.EventTransactionRecorded,
		UserID:      tx.UserID,
		Transaction: tx,
		Timestamp:   time.Now(),
	}
	return p.publish(ctx, tx.UserID, event)
}

// PublishTransactionDeleted publishes an event for a removed transaction
func (p *Producer) PublishTransactionDeleted(ctx context.Context, tx *models.Transaction) error {
	event := models.LedgerEvent{
		EventType:   models.EventTransactionDeleted,
		UserID:      tx.UserID,
		Transaction: tx,
		Timestamp:   time.Now(),
	}
	return p.publish(ctx, tx.UserID, event)
}

// PublishWithdrawalRecorded publishes an event for an admitted withdrawal
func (p *Producer) PublishWithdrawalRecorded(ctx context.Context, w *models.Withdrawal) error {
	event := models.LedgerEvent{
		EventType:  models.EventWithdrawalRecorded,
		UserID:     w.UserID,
		Withdrawal: w,
		Timestamp:  time.Now(),
	}
	return p.publish(ctx, w.UserID, event)
}

func (p *Producer) publish(ctx context.Context, userID int, event models.LedgerEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.Itoa(userID)),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
