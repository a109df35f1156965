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
	App        AppConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	RootPolicy RootPolicyConfig
	RateLimit  RateLimitConfig
	Audit      AuditConfig
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

// AuthConfig defines authentication parameters. DefaultTokenTTLMinutes is
// the explicit fallback lifetime used when a profile has no configured
// token-lifetime policy.
type AuthConfig struct {
	JWTSecret              string
	DefaultTokenTTLMinutes int
	BcryptCost             int
}

// RootPolicyConfig holds the four durations, in minutes, that make up the
// synthetic token-lifetime policy of the root profile. Loaded once at
// process start and immutable afterwards; root's policy is never persisted.
type RootPolicyConfig struct {
	TokenExpirationMin  int64
	WarnBeforeExpiryMin int64
	WarningDialogMin    int64
	RefreshIntervalMin  int64
}

// RateLimitConfig controls the login rate limiter.
type RateLimitConfig struct {
	Enabled       bool
	MaxAttempts   int
	WindowSeconds int
}

// AuditConfig holds the optional audit webhook endpoint.
type AuditConfig struct {
	WebhookURL string
}

// Window returns the limiter window as a duration.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-admin"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:              getEnv("AUTH_JWT_SECRET", "dev-secret"),
			DefaultTokenTTLMinutes: getEnvAsInt("AUTH_DEFAULT_TOKEN_TTL_MINUTES", 60),
			BcryptCost:             getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		RootPolicy: RootPolicyConfig{
			TokenExpirationMin:  int64(getEnvAsInt("ROOT_POLICY_TOKEN_EXPIRATION_MINUTES", 60)),
			WarnBeforeExpiryMin: int64(getEnvAsInt("ROOT_POLICY_WARN_BEFORE_EXPIRY_MINUTES", 5)),
			WarningDialogMin:    int64(getEnvAsInt("ROOT_POLICY_WARNING_DIALOG_MINUTES", 1)),
			RefreshIntervalMin:  int64(getEnvAsInt("ROOT_POLICY_REFRESH_INTERVAL_MINUTES", 30)),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvAsBool("LOGIN_RATE_LIMIT_ENABLED", true),
			MaxAttempts:   getEnvAsInt("LOGIN_RATE_LIMIT_MAX_ATTEMPTS", 10),
			WindowSeconds: getEnvAsInt("LOGIN_RATE_LIMIT_WINDOW_SECONDS", 60),
		},
		Audit: AuditConfig{
			WebhookURL: getEnv("AUDIT_WEBHOOK_URL", ""),
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
