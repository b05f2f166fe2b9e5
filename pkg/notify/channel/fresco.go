package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"github.com/marketfeed/notifykit/pkg/logger"
)

// FrescoConfig holds the in-app feed transport configuration.
type FrescoConfig struct {
	// AMQPURL is the broker connection string.
	AMQPURL string `env:"FRESCO_AMQP_URL,required"`

	// Exchange is the topic exchange the feed service consumes.
	Exchange string `env:"FRESCO_EXCHANGE" envDefault:"fresco.notifications"`
}

// frescoEnvelope is the message published per recipient to the feed
// service.
type frescoEnvelope struct {
	ID     string         `json:"id"`
	UserID string         `json:"user_id"`
	Data   map[string]any `json:"data"`
	SentAt time.Time      `json:"sent_at"`
}

// FrescoSender delivers the in-app channel payload by publishing one
// envelope per recipient to a durable topic exchange. The feed service
// consuming the queue owns persistence and unread counts.
type FrescoSender struct {
	conn     *amqp091.Connection
	exchange string
	logger   *slog.Logger
}

// NewFrescoSender connects to the broker and declares the exchange.
func NewFrescoSender(cfg FrescoConfig, log *slog.Logger) (*FrescoSender, error) {
	if cfg.AMQPURL == "" {
		return nil, fmt.Errorf("%w: AMQPURL is required", ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}

	conn, err := amqp091.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, errors.Join(ErrSendFailed, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Join(ErrSendFailed, err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, errors.Join(ErrSendFailed, err)
	}

	return &FrescoSender{
		conn:     conn,
		exchange: cfg.Exchange,
		logger:   log,
	}, nil
}

// Send publishes one persistent envelope per recipient. The payload's
// "type" field (injected during resolution) becomes the routing key
// suffix so feed consumers can bind per notification type.
func (s *FrescoSender) Send(ctx context.Context, recipients []string, payload map[string]any) error {
	ch, err := s.conn.Channel()
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	defer func() { _ = ch.Close() }()

	notifType, _ := payload["type"].(string)
	routingKey := "fresco." + notifType

	var errs []error
	for _, userID := range recipients {
		envelope := frescoEnvelope{
			ID:     uuid.New().String(),
			UserID: userID,
			Data:   payload,
			SentAt: time.Now(),
		}
		body, err := json.Marshal(envelope)
		if err != nil {
			errs = append(errs, fmt.Errorf("marshal envelope for %s: %w", userID, err))
			continue
		}

		err = ch.PublishWithContext(ctx, s.exchange, routingKey, false, false, amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    envelope.ID,
			Timestamp:    envelope.SentAt,
			Body:         body,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("publish for %s: %w", userID, err))
			continue
		}

		s.logger.DebugContext(ctx, "published in-app notification",
			logger.UserID(userID),
			logger.EventType(notifType),
		)
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrSendFailed}, errs...)...)
	}
	return nil
}

// Close closes the broker connection.
func (s *FrescoSender) Close() error {
	return s.conn.Close()
}
