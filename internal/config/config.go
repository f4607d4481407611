package config

import (
	"errors"
	"github.com/joho/godotenv"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTP_PORT string `env:"HTTP_PORT"`
	DB_STRING string `env:"DB_STRING"`

	LOG_LEVEL  string `env:"LOG_LEVEL"`
	LOG_FORMAT string `env:"LOG_FORMAT"`

	// Empty brokers disables Kafka publishing and intake.
	KAFKA_BROKERS      string `env:"KAFKA_BROKERS"`
	KAFKA_TOPIC        string `env:"KAFKA_TOPIC"`
	KAFKA_INTAKE_TOPIC string `env:"KAFKA_INTAKE_TOPIC"`
	KAFKA_GROUP_ID     string `env:"KAFKA_GROUP_ID"`

	// Empty address falls back to the in-memory tracking cache.
	REDIS_ADDR         string        `env:"REDIS_ADDR"`
	REDIS_PASSWORD     string        `env:"REDIS_PASSWORD"`
	REDIS_DB           int           `env:"REDIS_DB"`
	TRACKING_CACHE_TTL time.Duration `env:"TRACKING_CACHE_TTL"`

	FONT_DIR string `env:"FONT_DIR"`
}

var ErrNoDBString = errors.New("DB_STRING is required")

// LoadConfig reads the environment, after merging an optional .env file.
// Variables already set in the environment win over the file.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTP_PORT:          getEnv("HTTP_PORT", "8080"),
		DB_STRING:          os.Getenv("DB_STRING"),
		LOG_LEVEL:          getEnv("LOG_LEVEL", "info"),
		LOG_FORMAT:         getEnv("LOG_FORMAT", "console"),
		KAFKA_BROKERS:      os.Getenv("KAFKA_BROKERS"),
		KAFKA_TOPIC:        getEnv("KAFKA_TOPIC", "orders.events"),
		KAFKA_INTAKE_TOPIC: getEnv("KAFKA_INTAKE_TOPIC", "orders.intake"),
		KAFKA_GROUP_ID:     getEnv("KAFKA_GROUP_ID", "remit-desk"),
		REDIS_ADDR:         os.Getenv("REDIS_ADDR"),
		REDIS_PASSWORD:     os.Getenv("REDIS_PASSWORD"),
		FONT_DIR:           getEnv("FONT_DIR", "/usr/share/fonts/truetype/dejavu"),
	}

	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("REDIS_DB must be an integer")
	}
	cfg.REDIS_DB = db

	ttl, err := time.ParseDuration(getEnv("TRACKING_CACHE_TTL", "10m"))
	if err != nil {
		return nil, errors.New("TRACKING_CACHE_TTL must be a duration")
	}
	cfg.TRACKING_CACHE_TTL = ttl

	if cfg.DB_STRING == "" {
		return nil, ErrNoDBString
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
