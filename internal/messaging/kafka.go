// Package messaging carries feedback events between the click-tracking
// frontends and the weight adapter over Kafka.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/arxrec/arxrec/internal/config"
	"github.com/arxrec/arxrec/pkg/models"
)

// FeedbackBus publishes and consumes feedback events. The bus is optional:
// a deployment without brokers applies feedback through direct engine
// calls instead.
type FeedbackBus struct {
	writer *kafka.Writer
	reader *kafka.Reader
	logger *logrus.Logger
}

func NewFeedbackBus(cfg *config.KafkaConfig, logger *logrus.Logger) (*FeedbackBus, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topics.Feedback,
		Balancer:     &kafka.Hash{}, // key by user so one user's events stay ordered
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topics.Feedback,
		GroupID:        cfg.ConsumerGroup,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})

	return &FeedbackBus{
		writer: writer,
		reader: reader,
		logger: logger,
	}, nil
}

// PublishFeedback emits one feedback event. Events are keyed by user so a
// single user's interactions are consumed in order; the weight adapter is
// order-sensitive only in the cosmetic sense, but ordering keeps replays
// debuggable.
func (fb *FeedbackBus) PublishFeedback(ctx context.Context, event models.FeedbackEvent) error {
	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.UserID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID.String())},
			{Key: "action", Value: []byte(event.Action)},
		},
	}

	if err := fb.writer.WriteMessages(ctx, message); err != nil {
		fb.logger.WithError(err).WithField("user_id", event.UserID).Error("Failed to publish feedback event")
		return fmt.Errorf("failed to write feedback event: %w", err)
	}

	fb.logger.WithFields(logrus.Fields{
		"event_id": event.EventID,
		"user_id":  event.UserID,
		"paper_id": event.PaperID,
	}).Debug("Feedback event published")

	return nil
}

// ConsumeFeedback reads feedback events until the context is canceled,
// invoking handler for each. Handler errors are logged and the event is
// dropped: weight adaptation must run at most once per event, so a replay
// loop would double-adjust weights.
func (fb *FeedbackBus) ConsumeFeedback(ctx context.Context, handler func(context.Context, models.FeedbackEvent) error) error {
	for {
		message, err := fb.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fb.logger.WithError(err).Error("Failed to read feedback message")
			continue
		}

		var event models.FeedbackEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			fb.logger.WithError(err).Error("Failed to unmarshal feedback event")
			continue
		}

		if err := handler(ctx, event); err != nil {
			fb.logger.WithError(err).WithFields(logrus.Fields{
				"event_id": event.EventID,
				"user_id":  event.UserID,
			}).Error("Failed to process feedback event")
		}
	}
}

func (fb *FeedbackBus) Close() error {
	var errs []error

	if err := fb.writer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close feedback writer: %w", err))
	}
	if err := fb.reader.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close feedback reader: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing feedback bus: %v", errs)
	}
	return nil
}
