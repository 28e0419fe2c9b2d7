package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Vault    VaultConfig
	Dispatch DispatchConfig
	Email    EmailConfig
	SMS      SMSConfig
	Review   ReviewConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// VaultConfig parameterizes credential encryption at rest.
type VaultConfig struct {
	Passphrase string
	Salt       string
}

// DispatchConfig controls the review request pass.
type DispatchConfig struct {
	IntervalMinutes     int
	BatchSize           int
	LockTTLSeconds      int
	ClaimStaleMinutes   int
	SendTimeoutSeconds  int
	MarkRetryBackoffSec int
}

// EmailConfig holds SMTP settings for the email channel.
type EmailConfig struct {
	SMTPHost    string
	SMTPPort    string
	Username    string
	Password    string
	FromAddress string
}

// SMSConfig holds the SMS gateway endpoint. Account credentials are
// per-tenant and come from the vault, not from here.
type SMSConfig struct {
	APIBaseURL string
}

// ReviewConfig controls composed review links.
type ReviewConfig struct {
	PublicBaseURL   string
	TokenSecret     string
	TokenTTLMinutes int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "review-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Vault: VaultConfig{
			Passphrase: getEnv("VAULT_PASSPHRASE", "dev-vault-passphrase"),
			Salt:       getEnv("VAULT_KEY_SALT", "review-service-vault"),
		},
		Dispatch: DispatchConfig{
			IntervalMinutes:     getEnvAsInt("DISPATCH_INTERVAL_MINUTES", 10),
			BatchSize:           getEnvAsInt("DISPATCH_BATCH_SIZE", 200),
			LockTTLSeconds:      getEnvAsInt("DISPATCH_LOCK_TTL_SECONDS", 120),
			ClaimStaleMinutes:   getEnvAsInt("DISPATCH_CLAIM_STALE_MINUTES", 5),
			SendTimeoutSeconds:  getEnvAsInt("DISPATCH_SEND_TIMEOUT_SECONDS", 15),
			MarkRetryBackoffSec: getEnvAsInt("DISPATCH_MARK_RETRY_BACKOFF_SECONDS", 1),
		},
		Email: EmailConfig{
			SMTPHost:    getEnv("SMTP_HOST", "127.0.0.1"),
			SMTPPort:    getEnv("SMTP_PORT", "587"),
			Username:    os.Getenv("SMTP_USERNAME"),
			Password:    os.Getenv("SMTP_PASSWORD"),
			FromAddress: getEnv("SMTP_FROM_ADDRESS", "reviews@example.com"),
		},
		SMS: SMSConfig{
			APIBaseURL: getEnv("SMS_API_BASE_URL", "https://api.twilio.com"),
		},
		Review: ReviewConfig{
			PublicBaseURL:   getEnv("REVIEW_PUBLIC_BASE_URL", "http://localhost:8080"),
			TokenSecret:     getEnv("REVIEW_TOKEN_SECRET", "dev-secret"),
			TokenTTLMinutes: getEnvAsInt("REVIEW_TOKEN_TTL_MINUTES", 43200),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Interval returns the pass cadence.
func (d DispatchConfig) Interval() time.Duration {
	if d.IntervalMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(d.IntervalMinutes) * time.Minute
}

// LockTTL returns the pass lease duration.
func (d DispatchConfig) LockTTL() time.Duration {
	if d.LockTTLSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(d.LockTTLSeconds) * time.Second
}

// ClaimStaleAfter returns how old a claim must be before another pass
// may take the ticket over.
func (d DispatchConfig) ClaimStaleAfter() time.Duration {
	if d.ClaimStaleMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(d.ClaimStaleMinutes) * time.Minute
}

// SendTimeout bounds one channel delivery attempt.
func (d DispatchConfig) SendTimeout() time.Duration {
	if d.SendTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(d.SendTimeoutSeconds) * time.Second
}

// MarkRetryBackoff returns the wait before retrying a failed flag write.
func (d DispatchConfig) MarkRetryBackoff() time.Duration {
	if d.MarkRetryBackoffSec <= 0 {
		return time.Second
	}
	return time.Duration(d.MarkRetryBackoffSec) * time.Second
}

// TokenTTL returns the review link token lifetime.
func (r ReviewConfig) TokenTTL() time.Duration {
	if r.TokenTTLMinutes <= 0 {
		return 30 * 24 * time.Hour
	}
	return time.Duration(r.TokenTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
