package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Store     StoreConfig
	MongoDB   MongoDBConfig
	Shortener ShortenerConfig
	Kafka     KafkaConfig
	OTel      OTelConfig
}

type AppConfig struct {
	Name     string
	Version  string
	Env      string
	LogLevel string
}

type ServerConfig struct {
	Port        string
	Host        string
	CORSOrigins []string
}

type StoreConfig struct {
	Backend    string // memory, sqlite or mongo
	SQLitePath string
}

type MongoDBConfig struct {
	URI      string
	Database string
}

type ShortenerConfig struct {
	BaseURL             string
	RedirectStatus      int // 302 or 307
	LocationHeader      string
	MaxGenerateAttempts int
}

type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	Topic        string
	GroupID      string
	WriteTimeout time.Duration
}

type OTelConfig struct {
	Enabled  bool
	Endpoint string
}

// Load reads a .env file when present and builds the config from the
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment variables")
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:     GetEnv("APP_NAME", "encurtador-links"),
			Version:  GetEnv("APP_VERSION", "0.1.0"),
			Env:      GetEnv("APP_ENV", "development"),
			LogLevel: GetEnv("LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:        GetEnv("APP_PORT", "3000"),
			Host:        GetEnv("APP_HOST", "localhost"),
			CORSOrigins: SplitCSV(GetEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
		Store: StoreConfig{
			Backend:    strings.ToLower(GetEnv("STORE_BACKEND", StoreSQLite)),
			SQLitePath: GetEnv("SQLITE_PATH", "links.db"),
		},
		MongoDB: MongoDBConfig{
			URI:      GetEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: GetEnv("MONGODB_DATABASE", "encurtador"),
		},
		Shortener: ShortenerConfig{
			BaseURL:             GetEnv("SHORTENER_BASE_URL", "http://localhost:3000"),
			RedirectStatus:      GetEnvInt("REDIRECT_STATUS", 302),
			LocationHeader:      GetEnv("LOCATION_HEADER", "CF-IPCountry"),
			MaxGenerateAttempts: GetEnvInt("SHORTCODE_MAX_ATTEMPTS", 10),
		},
		Kafka: KafkaConfig{
			Enabled:      GetEnvBool("KAFKA_ENABLED", false),
			Brokers:      SplitCSV(GetEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:        GetEnv("KAFKA_LINK_TOPIC", "links.events"),
			GroupID:      GetEnv("KAFKA_GROUP_ID", "links-audit"),
			WriteTimeout: GetEnvDuration("KAFKA_WRITE_TIMEOUT", 5*time.Second),
		},
		OTel: OTelConfig{
			Enabled:  GetEnvBool("OTEL_ENABLED", false),
			Endpoint: GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case StoreMemory, StoreSQLite, StoreMongo:
	default:
		return fmt.Errorf("STORE_BACKEND must be memory, sqlite or mongo (got %q)", c.Store.Backend)
	}
	if c.Store.Backend == StoreSQLite && strings.TrimSpace(c.Store.SQLitePath) == "" {
		return fmt.Errorf("SQLITE_PATH must not be empty")
	}
	// A permanent redirect is cached by browsers, which then skip the click
	// recording and the expiry check on later visits.
	if c.Shortener.RedirectStatus != http.StatusFound && c.Shortener.RedirectStatus != http.StatusTemporaryRedirect {
		return fmt.Errorf("REDIRECT_STATUS must be 302 or 307 (got %d)", c.Shortener.RedirectStatus)
	}
	if c.Shortener.MaxGenerateAttempts <= 0 {
		return fmt.Errorf("SHORTCODE_MAX_ATTEMPTS must be > 0 (got %d)", c.Shortener.MaxGenerateAttempts)
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
		}
		if strings.TrimSpace(c.Kafka.Topic) == "" {
			return fmt.Errorf("KAFKA_LINK_TOPIC must not be empty")
		}
	}
	return nil
}
