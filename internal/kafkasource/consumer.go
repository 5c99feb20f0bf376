// Package kafkasource feeds selection events from a Kafka topic into the
// session registry. It serves clients that batch their selections (the
// mobile frontends) instead of posting the webhook per selection.
package kafkasource

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"place-intake/internal/common/logger"
	"place-intake/internal/common/metrics"
	"place-intake/internal/models"
)

// SelectionEvent is the wire format on the selections topic.
type SelectionEvent struct {
	SessionID string       `json:"session_id"`
	Place     models.Place `json:"place"`
}

// Reader is the subset of kafka.Reader the consumer needs; it allows a
// fake in unit tests.
type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Dispatcher is implemented by the session registry.
type Dispatcher interface {
	Ensure(sessionID string) error
	Dispatch(sessionID string, p *models.Place) error
}

type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Consumer reads selection events and dispatches them to their sessions.
// Offsets are committed only after dispatch, so a crash replays rather
// than drops; the seen-set absorbs the resulting duplicates.
type Consumer struct {
	reader     Reader
	dispatcher Dispatcher
	logger     logger.Logger

	doneCh chan struct{}
	wg     sync.WaitGroup
}

func NewConsumer(cfg *Config, dispatcher Dispatcher, log logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
		// Manual commit after dispatch.
		CommitInterval: 0,
		MinBytes:       10e3,
		MaxBytes:       10e6,
	})
	return NewConsumerWithReader(reader, dispatcher, log)
}

func NewConsumerWithReader(reader Reader, dispatcher Dispatcher, log logger.Logger) *Consumer {
	return &Consumer{
		reader:     reader,
		dispatcher: dispatcher,
		logger:     log.WithFields(map[string]interface{}{"component": "kafka-source"}),
		doneCh:     make(chan struct{}),
	}
}

// Start begins the consume loop in its own goroutine.
func (c *Consumer) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.logger.Info("kafka selection source started", nil)

		for {
			select {
			case <-ctx.Done():
				return
			case <-c.doneCh:
				return
			default:
				msg, err := c.reader.ReadMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					c.logger.WithError(err).Warn("read message failed", nil)
					// Backoff to avoid a tight error loop.
					time.Sleep(time.Second)
					continue
				}
				c.handle(ctx, msg)
			}
		}
	}()
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	var event SelectionEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.WithError(err).Warn("malformed selection event, skipped", map[string]interface{}{
			"offset": msg.Offset,
		})
		c.commit(ctx, msg)
		return
	}
	if event.SessionID == "" {
		c.logger.Warn("selection event without session id, skipped", map[string]interface{}{
			"offset": msg.Offset,
		})
		c.commit(ctx, msg)
		return
	}

	metrics.SelectionsReceived.WithLabelValues("kafka").Inc()

	if err := c.dispatcher.Ensure(event.SessionID); err != nil {
		c.logger.WithError(err).Error("session install failed", map[string]interface{}{
			"sessionId": event.SessionID,
		})
		return
	}
	if err := c.dispatcher.Dispatch(event.SessionID, &event.Place); err != nil {
		c.logger.WithError(err).Error("dispatch failed", map[string]interface{}{
			"sessionId": event.SessionID,
		})
		return
	}

	c.commit(ctx, msg)
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.WithError(err).Warn("offset commit failed", map[string]interface{}{
			"offset": msg.Offset,
		})
	}
}

// Stop shuts the consumer down and closes the reader.
func (c *Consumer) Stop() {
	close(c.doneCh)
	c.wg.Wait()
	if err := c.reader.Close(); err != nil {
		c.logger.WithError(err).Warn("reader close failed", nil)
	}
}
