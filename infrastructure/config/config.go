package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	ServiceTokenSecret        string
	ServiceTokenRequireExpiry bool
	ServiceTokenLeeway        time.Duration
	ServiceTokenVerifyTimeout time.Duration
	ServiceTokenTTL           time.Duration
	CSRFSecret                string

	ServerPort  string
	ServerHost  string
	Environment string

	RedisURL          string
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	LogLevel            string
	LogFormat           string
	LogEnableRequestLog bool

	// CORS configuration
	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
}

// ReportConfig configures the PDF report service, which only talks to the
// student API over HTTP and needs neither a database nor the signing secret.
type ReportConfig struct {
	Port            string
	StudentAPIURL   string
	ServiceToken    string
	UpstreamTimeout time.Duration
	Environment     string
	LogLevel        string
	LogFormat       string
}

var (
	ErrMissingDatabaseURL        = errors.New("DATABASE_URL is required")
	ErrMissingServiceTokenSecret = errors.New("SERVICE_TOKEN_SECRET is required")
	ErrMissingServiceToken       = errors.New("SERVICE_TOKEN is required")
	ErrInvalidTokenTTL           = errors.New("invalid token TTL format")
	ErrInvalidTokenLeeway        = errors.New("invalid SERVICE_TOKEN_LEEWAY format")
	ErrInvalidRateLimit          = errors.New("RATE_LIMIT_REQUESTS must be positive")
)

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DBMaxOpenConns:    getEnvOrDefaultInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    getEnvOrDefaultInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: getEnvOrDefaultDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		ServiceTokenSecret:        os.Getenv("SERVICE_TOKEN_SECRET"),
		ServiceTokenRequireExpiry: getEnvOrDefaultBool("SERVICE_TOKEN_REQUIRE_EXPIRY", false),
		ServiceTokenVerifyTimeout: getEnvOrDefaultDuration("SERVICE_TOKEN_VERIFY_TIMEOUT", 2*time.Second),

		ServerPort:  getEnvOrDefault("SERVER_PORT", "5007"),
		ServerHost:  getEnvOrDefault("SERVER_HOST", "localhost"),
		Environment: getEnvOrDefault("ENV", "development"),

		RedisURL:          getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		RateLimitEnabled:  getEnvOrDefaultBool("RATE_LIMIT_ENABLED", false),
		RateLimitRequests: getEnvOrDefaultInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   getEnvOrDefaultDuration("RATE_LIMIT_WINDOW", time.Minute),

		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		LogEnableRequestLog: getEnvOrDefaultBool("LOG_ENABLE_REQUEST_LOG", true),

		CORSEnabled:          getEnvOrDefaultBool("CORS_ENABLED", true),
		CORSAllowCredentials: getEnvOrDefaultBool("CORS_ALLOW_CREDENTIALS", true),
		CORSAllowedOrigins:   parseAllowedOrigins(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "")),
	}

	if cfg.ServiceTokenSecret == "" {
		return nil, ErrMissingServiceTokenSecret
	}

	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	// The CSRF HMAC secret is only needed when minting tokens.
	cfg.CSRFSecret = getEnvOrDefault("JWT_ACCESS_TOKEN_SECRET", cfg.ServiceTokenSecret)

	leeway, err := parseTokenTTL(getEnvOrDefault("SERVICE_TOKEN_LEEWAY", "0"))
	if err != nil {
		return nil, ErrInvalidTokenLeeway
	}
	cfg.ServiceTokenLeeway = leeway

	ttl, err := parseTokenTTL(getEnvOrDefault("SERVICE_TOKEN_TTL", "900"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.ServiceTokenTTL = ttl

	if cfg.RateLimitEnabled && cfg.RateLimitRequests <= 0 {
		return nil, ErrInvalidRateLimit
	}

	return cfg, nil
}

// LoadTokenIssuer loads only what the token issuing tool needs. It does not
// require DATABASE_URL.
func LoadTokenIssuer() (*Config, error) {
	_ = godotenv.Load()

	secret := os.Getenv("SERVICE_TOKEN_SECRET")
	if secret == "" {
		return nil, ErrMissingServiceTokenSecret
	}

	ttl, err := parseTokenTTL(getEnvOrDefault("SERVICE_TOKEN_TTL", "900"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}

	return &Config{
		ServiceTokenSecret: secret,
		ServiceTokenTTL:    ttl,
		CSRFSecret:         getEnvOrDefault("JWT_ACCESS_TOKEN_SECRET", secret),
		Environment:        getEnvOrDefault("ENV", "development"),
	}, nil
}

func LoadReport() (*ReportConfig, error) {
	_ = godotenv.Load()

	cfg := &ReportConfig{
		Port:            getEnvOrDefault("REPORT_PORT", "8080"),
		StudentAPIURL:   strings.TrimRight(getEnvOrDefault("STUDENT_API_URL", "http://localhost:5007"), "/"),
		ServiceToken:    os.Getenv("SERVICE_TOKEN"),
		UpstreamTimeout: getEnvOrDefaultDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		Environment:     getEnvOrDefault("ENV", "development"),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       getEnvOrDefault("LOG_FORMAT", "json"),
	}

	if cfg.ServiceToken == "" {
		return nil, ErrMissingServiceToken
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvOrDefaultDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		// plain integers are seconds
		if n, err := strconv.Atoi(value); err == nil {
			return time.Duration(n) * time.Second
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue
		}
		return d
	}
	return defaultValue
}

func parseTokenTTL(value string) (time.Duration, error) {
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if seconds < 0 {
		return 0, ErrInvalidTokenTTL
	}
	return time.Duration(seconds) * time.Second, nil
}

func parseAllowedOrigins(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}
