package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IgorGrieder/encurtador-links/internal/events"
	"github.com/IgorGrieder/encurtador-links/internal/infrastructure/logger"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler receives decoded events. An error leaves the offset uncommitted.
type Handler interface {
	HandleLinkCreated(ctx context.Context, event events.LinkCreated) error
	HandleClickRecorded(ctx context.Context, event events.ClickRecorded) error
}

type Consumer struct {
	reader  messageReader
	handler Handler
	backoff time.Duration
}

type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	MaxWait time.Duration
	Backoff time.Duration
}

func NewConsumer(cfg ConsumerConfig, handler Handler) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     cfg.MaxWait,
		StartOffset: kafka.FirstOffset,
	})
	return newConsumer(reader, handler, cfg.Backoff)
}

func newConsumer(reader messageReader, handler Handler, backoff time.Duration) *Consumer {
	return &Consumer{reader: reader, handler: handler, backoff: backoff}
}

// Run fetches, handles and commits messages until ctx is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil
			}
			logger.Error("failed to fetch kafka message", zap.Error(err))
			c.wait(ctx)
			continue
		}

		if err := c.consume(ctx, msg); err != nil {
			logger.Error("failed to process link event",
				zap.Error(err),
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
			)
			c.wait(ctx)
		}
	}
}

func (c *Consumer) consume(ctx context.Context, msg kafka.Message) error {
	eventType := headerValue(msg.Headers, events.TypeHeader)

	consumeCtx, span := tracer.Start(ContextFromHeaders(ctx, msg.Headers), "kafka.consume."+eventType,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", msg.Topic),
			attribute.String("messaging.operation", "process"),
			attribute.Int("messaging.kafka.partition", msg.Partition),
			attribute.Int64("messaging.kafka.offset", msg.Offset),
		),
	)
	defer span.End()

	if err := c.dispatch(consumeCtx, eventType, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "process link event failed")
		return err
	}

	if err := c.reader.CommitMessages(consumeCtx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit kafka offset failed")
		return fmt.Errorf("commit offset: %w", err)
	}
	return nil
}

// dispatch skips payloads it cannot decode so a poison message does not block
// the partition.
func (c *Consumer) dispatch(ctx context.Context, eventType string, msg kafka.Message) error {
	switch eventType {
	case events.TypeLinkCreated:
		var event events.LinkCreated
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Warn("invalid link created payload, skipping", zap.Error(err), zap.ByteString("payload", msg.Value))
			return nil
		}
		return c.handler.HandleLinkCreated(ctx, event)
	case events.TypeClickRecorded:
		var event events.ClickRecorded
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Warn("invalid click recorded payload, skipping", zap.Error(err), zap.ByteString("payload", msg.Value))
			return nil
		}
		return c.handler.HandleClickRecorded(ctx, event)
	default:
		logger.Warn("unknown event type, skipping",
			zap.String("event_type", eventType),
			zap.Int64("offset", msg.Offset),
		)
		return nil
	}
}

func (c *Consumer) wait(ctx context.Context) {
	if c.backoff <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(c.backoff):
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
