// Package bootstrap wires a links.Service from config for the binaries.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/IgorGrieder/encurtador-links/internal/config"
	"github.com/IgorGrieder/encurtador-links/internal/infrastructure/db"
	"github.com/IgorGrieder/encurtador-links/internal/infrastructure/logger"
	kafkaMessaging "github.com/IgorGrieder/encurtador-links/internal/messaging/kafka"
	"github.com/IgorGrieder/encurtador-links/internal/processing/links"
	"github.com/IgorGrieder/encurtador-links/internal/storage/memory"
	mongoStorage "github.com/IgorGrieder/encurtador-links/internal/storage/mongo"
	sqliteStorage "github.com/IgorGrieder/encurtador-links/internal/storage/sqlite"
	"go.uber.org/zap"
)

// OpenStore returns the store selected by cfg.Store.Backend and a func that
// releases it.
func OpenStore(ctx context.Context, cfg *config.Config) (links.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreMemory:
		logger.Info("Storage backend selected", zap.String("backend", config.StoreMemory))
		return memory.NewLinksStore(), func() {}, nil

	case config.StoreSQLite:
		store, err := sqliteStorage.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Info("Storage backend selected",
			zap.String("backend", config.StoreSQLite),
			zap.String("path", cfg.Store.SQLitePath),
		)
		return store, func() { _ = store.Close() }, nil

	case config.StoreMongo:
		mongoConn, err := db.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		store, err := mongoStorage.NewLinksStore(ctx, mongoConn)
		if err != nil {
			_ = mongoConn.Disconnect(context.WithoutCancel(ctx))
			return nil, nil, fmt.Errorf("init mongo links store: %w", err)
		}
		logger.Info("Storage backend selected", zap.String("backend", config.StoreMongo))
		return store, func() { _ = mongoConn.Disconnect(context.Background()) }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// NewService opens the configured store and, when Kafka is enabled, a
// publisher for link events.
func NewService(ctx context.Context, cfg *config.Config) (*links.Service, func(), error) {
	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := links.ServiceOptions{
		BaseURL:             cfg.Shortener.BaseURL,
		MaxGenerateAttempts: cfg.Shortener.MaxGenerateAttempts,
	}

	closeAll := closeStore
	if cfg.Kafka.Enabled {
		publisher := kafkaMessaging.NewPublisher(kafkaMessaging.PublisherConfig{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			WriteTimeout: cfg.Kafka.WriteTimeout,
		})
		opts.Publisher = publisher
		closeAll = func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("failed to close kafka publisher", zap.Error(err))
			}
			closeStore()
		}
		logger.Info("Kafka publisher enabled",
			zap.Strings("kafka_brokers", cfg.Kafka.Brokers),
			zap.String("kafka_topic", cfg.Kafka.Topic),
		)
	}

	return links.NewServiceWithOptions(store, links.NewCryptoCodeSource(), opts), closeAll, nil
}
