package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IgorGrieder/encurtador-links/internal/events"
	"github.com/IgorGrieder/encurtador-links/internal/processing/links"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("links-publisher")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes link lifecycle events to a single topic, keyed by shortcode.
type Publisher struct {
	writer       messageWriter
	topic        string
	writeTimeout time.Duration
	newID        func() string
}

type PublisherConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

func NewPublisher(cfg PublisherConfig) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newPublisher(writer, cfg.Topic, cfg.WriteTimeout)
}

func newPublisher(writer messageWriter, topic string, writeTimeout time.Duration) *Publisher {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &Publisher{
		writer:       writer,
		topic:        topic,
		writeTimeout: writeTimeout,
		newID:        uuid.NewString,
	}
}

func (p *Publisher) LinkCreated(ctx context.Context, rec links.LinkRecord) error {
	event := events.LinkCreated{
		EventID:         p.newID(),
		Shortcode:       rec.Shortcode,
		LongURL:         rec.LongURL,
		ValidityMinutes: rec.ValidityMinutes,
		CreatedAt:       rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		ExpiresAt:       rec.ExpiresAt.UTC().Format(time.RFC3339Nano),
	}
	return p.publish(ctx, events.TypeLinkCreated, event.EventID, rec.Shortcode, rec.CreatedAt, event)
}

func (p *Publisher) ClickRecorded(ctx context.Context, shortcode string, click links.ClickEvent) error {
	event := events.ClickRecorded{
		EventID:    p.newID(),
		Shortcode:  shortcode,
		OccurredAt: click.Timestamp.UTC().Format(time.RFC3339Nano),
		Source:     click.Source,
		Location:   click.Location,
	}
	return p.publish(ctx, events.TypeClickRecorded, event.EventID, shortcode, click.Timestamp, event)
}

func (p *Publisher) publish(ctx context.Context, eventType, eventID, key string, at time.Time, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	ctx, span := tracer.Start(ctx, "kafka.publish."+eventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", p.topic),
			attribute.String("messaging.operation", "publish"),
			attribute.String("messaging.message.id", eventID),
			attribute.String("messaging.kafka.message_key", key),
		),
	)
	defer span.End()

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	headers := append(carrierToHeaders(carrier), kafka.Header{Key: events.TypeHeader, Value: []byte(eventType)})

	writeCtx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Time:    at.UTC(),
		Headers: headers,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "kafka publish failed")
		return err
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ links.EventPublisher = (*Publisher)(nil)
