package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Stream   StreamConfig   `yaml:"stream"`
	Kafka    KafkaConfig    `yaml:"kafka"`
}

type AppConfig struct {
	Port           string        `yaml:"port" env:"APP_PORT" env-default:"8080"`
	LogLevel       string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	SelectionLimit int           `yaml:"selection_limit" env:"SELECTION_LIMIT" env-default:"8"`
	VenueSource    string        `yaml:"venue_source" env:"VENUE_SOURCE" env-default:"generator"`
	VenueID        string        `yaml:"venue_id" env:"VENUE_ID" env-default:"arena-150"`
	GeneratorRows  int           `yaml:"generator_rows" env:"GENERATOR_ROWS" env-default:"15"`
	GeneratorCols  int           `yaml:"generator_cols" env:"GENERATOR_COLS" env-default:"10"`
	FeedTransport  string        `yaml:"feed_transport" env:"FEED_TRANSPORT" env-default:"memory"`
	FeedBuffer     int           `yaml:"feed_buffer" env:"FEED_BUFFER" env-default:"256"`
	SessionBackend string        `yaml:"session_backend" env:"SESSION_BACKEND" env-default:"memory"`
	SessionTTL     time.Duration `yaml:"session_ttl" env:"SESSION_TTL" env-default:"24h"`
	FlashWindow    time.Duration `yaml:"flash_window" env:"FLASH_WINDOW" env-default:"1s"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD" env-default:"postgres"`
	DBName   string `yaml:"name" env:"DB_NAME" env-default:"postgres"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`
}

type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// StreamConfig tunes the Redis Stream seat feed. Zero values fall back to the feed defaults.
type StreamConfig struct {
	ClaimMinIdleTime   time.Duration `yaml:"claim_min_idle" env:"STREAM_CLAIM_MIN_IDLE" env-default:"5s"`
	MaxRetryCount      int           `yaml:"max_retry" env:"STREAM_MAX_RETRY" env-default:"5"`
	ReadGroupBlockTime time.Duration `yaml:"block_time" env:"STREAM_BLOCK_TIME" env-default:"2s"`
	ConsumerID         string        `yaml:"consumer_id" env:"STREAM_CONSUMER_ID" env-default:""`
}

type KafkaConfig struct {
	Brokers       []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092" env-separator:","`
	Topic         string   `yaml:"topic" env:"KAFKA_SEAT_TOPIC" env-default:"seat-updates"`
	ConsumerGroup string   `yaml:"consumer_group" env:"KAFKA_CONSUMER_GROUP" env-default:"seat-map"`
}

// Current is the configuration most recently loaded by LoadConfig.
var Current *Config

// LoadConfig reads CONFIG_PATH (YAML) when it points to an existing file and
// falls back to environment variables otherwise.
func LoadConfig() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(err)
	}
	Current = cfg
	return Current
}

func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, fmt.Errorf("read config file %s: %w", path, err)
			}
			return cfg, nil
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}

func LoadTestConfig() *Config {
	return &Config{
		App: AppConfig{
			Port:           "8081",
			LogLevel:       "debug",
			SelectionLimit: 8,
			VenueSource:    "generator",
			VenueID:        "arena-150",
			GeneratorRows:  15,
			GeneratorCols:  10,
			FeedTransport:  "memory",
			FeedBuffer:     16,
			SessionBackend: "memory",
			SessionTTL:     time.Hour,
			FlashWindow:    time.Second,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5433", // test database port
			User:     "postgres",
			Password: "postgres",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			Host:     "localhost",
			Port:     "6380", // test redis port
			Password: "",
			DB:       1,
		},
		Stream: StreamConfig{
			ClaimMinIdleTime:   200 * time.Millisecond,
			MaxRetryCount:      3,
			ReadGroupBlockTime: 100 * time.Millisecond,
		},
		Kafka: KafkaConfig{
			Brokers:       []string{"localhost:9093"},
			Topic:         "seat-updates-test",
			ConsumerGroup: "seat-map-test",
		},
	}
}
