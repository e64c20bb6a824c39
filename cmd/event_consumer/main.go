package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/IgorGrieder/encurtador-links/internal/config"
	"github.com/IgorGrieder/encurtador-links/internal/infrastructure/logger"
	"github.com/IgorGrieder/encurtador-links/internal/infrastructure/telemetry"
	kafkaMessaging "github.com/IgorGrieder/encurtador-links/internal/messaging/kafka"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if len(cfg.Kafka.Brokers) == 0 {
		fmt.Fprintln(os.Stderr, "KAFKA_BROKERS must contain at least one broker")
		os.Exit(1)
	}

	if err := logger.Init(cfg.App.Env, cfg.App.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	serviceName := fmt.Sprintf("%s-event-consumer", cfg.App.Name)
	if cfg.OTel.Enabled {
		shutdownTracer, err := telemetry.InitTracer(context.Background(), cfg.OTel.Endpoint, telemetry.Resource{
			ServiceName:    serviceName,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Env,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", zap.Error(err))
		} else {
			logger.Info("OpenTelemetry tracer initialized",
				zap.String("endpoint", cfg.OTel.Endpoint),
				zap.String("service", serviceName),
			)
			defer func() {
				if err := shutdownTracer(context.Background()); err != nil {
					logger.Warn("failed to shutdown tracer", zap.Error(err))
				}
			}()
		}
	}

	consumer := kafkaMessaging.NewConsumer(kafkaMessaging.ConsumerConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
		MaxWait: config.GetEnvDuration("KAFKA_CONSUMER_MAX_WAIT", defaultMaxWait),
		Backoff: config.GetEnvDuration("KAFKA_CONSUMER_BACKOFF", defaultBackoff),
	}, newAuditHandler())
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.Warn("failed to close kafka reader", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("event consumer started",
		zap.Strings("kafka_brokers", cfg.Kafka.Brokers),
		zap.String("kafka_topic", cfg.Kafka.Topic),
		zap.String("kafka_group", cfg.Kafka.GroupID),
	)

	if err := consumer.Run(ctx); err != nil {
		logger.Error("event consumer stopped with error", zap.Error(err))
		return
	}
	logger.Info("event consumer stopping")
}
