package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewSessionConfigHolder),
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
	DBAutoMigrate     bool

	Redis     RedisConfig
	Events    EventsConfig
	Identity  IdentityProviderConfig
	Webhooks  WebhookProviderConfig
	RateLimit RateLimitConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a redis endpoint was configured.
func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

type EventsConfig struct {
	RelayEnabled  bool
	Stream        string
	RelayInterval time.Duration
	RelayBatch    int
	RelayLockTTL  time.Duration
}

// IdentityProviderConfig points at the OAuth2 admin API that issues client credentials.
type IdentityProviderConfig struct {
	BaseURL    string
	AdminToken string
	Timeout    time.Duration
}

// WebhookProviderConfig points at the webhook delivery service.
type WebhookProviderConfig struct {
	Enabled bool
	BaseURL string
	Token   string
	Timeout time.Duration
}

type RateLimitConfig struct {
	InviteRate  float64
	InviteBurst int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:           getenv("APP_SERVICE", "hub-orgs"),
		AppVersion:        getenv("APP_VERSION", "0.1.0"),
		Environment:       getenv("ENVIRONMENT", "development"),
		HTTPAddr:          getenv("HTTP_ADDR", ":3000"),
		LogLevel:          strings.ToLower(getenv("LOG_LEVEL", "info")),
		OTLPEndpoint:      getenv("OTLP_ENDPOINT", "localhost:4317"),
		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "hub_orgs"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 10),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 50),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME_SECONDS", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME_SECONDS", 60),
		DBAutoMigrate:     getenvBool("DATABASE_AUTO_MIGRATE", true),
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
			Password: strings.TrimSpace(getenv("REDIS_PASSWORD", "")),
			DB:       getenvInt("REDIS_DB", 0),
		},
		Events: EventsConfig{
			RelayEnabled:  getenvBool("EVENTS_RELAY_ENABLED", true),
			Stream:        getenv("EVENTS_STREAM", "hub-orgs.organizations"),
			RelayInterval: getenvDuration("EVENTS_RELAY_INTERVAL", 2*time.Second),
			RelayBatch:    getenvInt("EVENTS_RELAY_BATCH", 100),
			RelayLockTTL:  getenvDuration("EVENTS_RELAY_LOCK_TTL", 30*time.Second),
		},
		Identity: IdentityProviderConfig{
			BaseURL:    strings.TrimRight(getenv("ORY_BASE_URL", "http://localhost:4445"), "/"),
			AdminToken: strings.TrimSpace(getenv("ORY_AUTH_TOKEN", "")),
			Timeout:    getenvDuration("ORY_TIMEOUT", 10*time.Second),
		},
		Webhooks: WebhookProviderConfig{
			Enabled: getenvBool("SVIX_ENABLED", true),
			BaseURL: strings.TrimRight(getenv("SVIX_BASE_URL", "https://api.svix.com"), "/"),
			Token:   strings.TrimSpace(getenv("SVIX_AUTH_TOKEN", "")),
			Timeout: getenvDuration("SVIX_TIMEOUT", 10*time.Second),
		},
		RateLimit: RateLimitConfig{
			InviteRate:  getenvFloat("INVITE_RATE_PER_SECOND", 1),
			InviteBurst: getenvInt("INVITE_BURST", 20),
		},
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

// getenvDuration accepts Go duration strings ("5s") or a bare number of seconds.
func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return def
}
