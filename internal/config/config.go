package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName        = "GameVault"
	defaultPort           = "3000"
	defaultLogLevel       = "info"
	defaultTokenTTL       = 7 * 24 * time.Hour
	defaultShutdownPeriod = 10 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour
	defaultKafkaTopic     = "wallet-transactions"
	devJWTSecret          = "change-this-key-for-production"
)

// Config captures application runtime configuration loaded from the
// environment, with optional .env overrides for local development.
type Config struct {
	AppName        string
	Port           string
	LogLevel       string
	JWTSecret      string
	TokenTTL       time.Duration
	DatabaseURL    string
	RedisURL       string
	KafkaBrokers   []string
	KafkaTopic     string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
}

// Load reads configuration values and populates a Config instance. Empty
// DATABASE_URL, REDIS_URL or KAFKA_BROKERS select the in-memory / no-op
// backends, which is the reference deployment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		JWTSecret:      getEnv("JWT_SECRET", devJWTSecret),
		TokenTTL:       defaultTokenTTL,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		KafkaTopic:     getEnv("KAFKA_TOPIC", defaultKafkaTopic),
		ShutdownPeriod: defaultShutdownPeriod,
		IdempotencyTTL: defaultIdempotencyTTL,
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		for _, broker := range strings.Split(v, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}

	for _, d := range []struct {
		key    string
		target *time.Duration
	}{
		{"TOKEN_TTL", &cfg.TokenTTL},
		{"SHUTDOWN_TIMEOUT", &cfg.ShutdownPeriod},
		{"IDEMPOTENCY_TTL", &cfg.IdempotencyTTL},
	} {
		if v := os.Getenv(d.key); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", d.key, err)
			}
			*d.target = parsed
		}
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
