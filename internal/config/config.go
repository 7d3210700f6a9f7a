package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends for undelivered events.
const (
	StorageFile  = "file"
	StorageRedis = "redis"
	StorageNone  = "none"
)

// Transports for envelope delivery.
const (
	TransportHTTP = "http"
	TransportNATS = "nats"
)

// Config holds the CLI sensor configuration.
type Config struct {
	Sensor    SensorConfig
	Storage   StorageConfig
	Transport TransportConfig
	LogLevel  string
}

type SensorConfig struct {
	ID            string
	Endpoint      string
	APIKey        string
	APIKeyHeader  string
	FlushInterval time.Duration
	MaxBatchSize  int
	MaxRetries    int
	RetryBackoff  time.Duration
}

type StorageConfig struct {
	Kind       string
	Path       string
	RedisAddr  string
	RedisKey   string
	MaxRecords int
}

type TransportConfig struct {
	Kind        string
	HTTPTimeout time.Duration
	NATSURL     string
}

// LoadConfig reads CALIPER_* environment variables, after loading envFile
// (or .env when empty) if it exists.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	} else {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetEnvPrefix("CALIPER")
	v.AutomaticEnv()

	v.SetDefault("SENSOR_ID", "urn:caliper:sensor:cli")
	v.SetDefault("ENDPOINT", "http://localhost:3000/events")
	v.SetDefault("FLUSH_INTERVAL", "5s")
	v.SetDefault("MAX_BATCH_SIZE", 10)
	v.SetDefault("MAX_RETRIES", 3)
	v.SetDefault("RETRY_BACKOFF", "1s")
	v.SetDefault("LOG_LEVEL", "WARN")
	v.SetDefault("STORAGE", StorageFile)
	v.SetDefault("STORAGE_PATH", "caliper_events.json")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_KEY", "caliper:records")
	v.SetDefault("TRANSPORT", TransportHTTP)
	v.SetDefault("HTTP_TIMEOUT", "30s")
	v.SetDefault("NATS_URL", "nats://127.0.0.1:4222")

	cfg := &Config{
		Sensor: SensorConfig{
			ID:            v.GetString("SENSOR_ID"),
			Endpoint:      v.GetString("ENDPOINT"),
			APIKey:        v.GetString("API_KEY"),
			APIKeyHeader:  v.GetString("API_KEY_HEADER"),
			FlushInterval: v.GetDuration("FLUSH_INTERVAL"),
			MaxBatchSize:  v.GetInt("MAX_BATCH_SIZE"),
			MaxRetries:    v.GetInt("MAX_RETRIES"),
			RetryBackoff:  v.GetDuration("RETRY_BACKOFF"),
		},
		Storage: StorageConfig{
			Kind:       strings.ToLower(v.GetString("STORAGE")),
			Path:       v.GetString("STORAGE_PATH"),
			RedisAddr:  v.GetString("REDIS_ADDR"),
			RedisKey:   v.GetString("REDIS_KEY"),
			MaxRecords: v.GetInt("STORAGE_MAX_RECORDS"),
		},
		Transport: TransportConfig{
			Kind:        strings.ToLower(v.GetString("TRANSPORT")),
			HTTPTimeout: v.GetDuration("HTTP_TIMEOUT"),
			NATSURL:     v.GetString("NATS_URL"),
		},
		LogLevel: v.GetString("LOG_LEVEL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the backend selections.
func (c *Config) Validate() error {
	switch c.Storage.Kind {
	case StorageFile, StorageRedis, StorageNone:
	default:
		return fmt.Errorf("unknown storage %q (want file, redis or none)", c.Storage.Kind)
	}
	switch c.Transport.Kind {
	case TransportHTTP, TransportNATS:
	default:
		return fmt.Errorf("unknown transport %q (want http or nats)", c.Transport.Kind)
	}
	if c.Sensor.MaxBatchSize < 0 {
		return fmt.Errorf("max batch size must not be negative, got %d", c.Sensor.MaxBatchSize)
	}
	return nil
}
