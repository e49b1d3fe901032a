package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var ErrMissingSecret = errors.New("config: JWT_SECRET is required")

type Storage string

const (
	StoragePostgres Storage = "postgres"
	StorageMemory   Storage = "memory"
)

type DBConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds the Postgres URL understood by both pgx and lib/pq.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

type NudgeConfig struct {
	ResendAPIKey string
	FromEmail    string
}

type Config struct {
	Port      string
	Storage   Storage
	DB        DBConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Nudge     NudgeConfig
	RateLimit int
	LogLevel  string
	LogDir    string
	// Location decides which calendar day "today" is on the server.
	Location *time.Location
}

// Load reads .env from the working directory when present, then the
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on environment variables")
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds the configuration from a lookup function.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fallback
	}

	redisDB, err := strconv.Atoi(get("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("config: REDIS_DB: %w", err)
	}
	rateLimit, err := strconv.Atoi(get("RATE_LIMIT", "100"))
	if err != nil {
		return nil, fmt.Errorf("config: RATE_LIMIT: %w", err)
	}
	ttl, err := time.ParseDuration(get("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("config: TOKEN_TTL: %w", err)
	}
	loc, err := time.LoadLocation(get("APP_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("config: APP_TIMEZONE: %w", err)
	}

	storage := Storage(get("STORAGE", string(StoragePostgres)))
	if storage != StoragePostgres && storage != StorageMemory {
		return nil, fmt.Errorf("config: STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, storage)
	}

	cfg := &Config{
		Port:    get("PORT", "8080"),
		Storage: storage,
		DB: DBConfig{
			Driver:   get("DB_DRIVER", "pgx"),
			Host:     get("DB_HOST", "localhost"),
			Port:     get("DB_PORT", "5432"),
			User:     get("DB_USER", "kanso_user"),
			Password: get("DB_PASSWORD", ""),
			Name:     get("DB_NAME", "kanso_db"),
			SSLMode:  get("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     get("REDIS_HOST", "localhost"),
			Port:     get("REDIS_PORT", "6379"),
			Password: get("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			Secret:   get("JWT_SECRET", ""),
			Issuer:   get("JWT_ISSUER", "kanso"),
			TokenTTL: ttl,
		},
		Nudge: NudgeConfig{
			ResendAPIKey: get("RESEND_API_KEY", ""),
			FromEmail:    get("NUDGE_FROM_EMAIL", ""),
		},
		RateLimit: rateLimit,
		LogLevel:  get("LOG_LEVEL", "info"),
		LogDir:    get("LOGS_FOLDER", ""),
		Location:  loc,
	}

	if cfg.Auth.Secret == "" {
		return nil, ErrMissingSecret
	}
	return cfg, nil
}
