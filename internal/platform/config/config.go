package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverMongoDB  = "mongodb"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	ProjectName    string
	ProjectVersion string
	Port           string
	IsProduction   bool
	APIPrefix      string

	JWTSecret                  string
	JWTAlgorithm               string
	JWTIssuer                  string
	AccessTokenExpiryDuration  time.Duration
	RefreshTokenExpiryDuration time.Duration

	StoreDriver        string
	MongoURI           string
	MongoDatabase      string
	MongoMaxPoolSize   uint64
	DatabaseURL        string
	EnableDBCheck      bool
	DBOperationTimeout time.Duration

	LogLevel  string
	LogFormat string

	CORSAllowedOrigins []string
	AuthRateLimit      string

	OTelEndpoint   string
	OTelInsecure   bool
	OTelSampleRate float64
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PROJECT_NAME", "user_center")
	v.SetDefault("PROJECT_VERSION", "1.0.0")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ALGORITHM", "HS256")
	v.SetDefault("JWT_ISSUER", "user_center")
	v.SetDefault("ACCESS_TOKEN_EXPIRY_DURATION", "30m")
	v.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	v.SetDefault("STORE_DRIVER", StoreDriverMongoDB)
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "user_center")
	v.SetDefault("MONGODB_MAX_POOL_SIZE", 100)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("DB_OPERATION_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("AUTH_RATE_LIMIT", "5-M")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_INSECURE", true)
	v.SetDefault("OTEL_SAMPLE_RATE", 1.0)

	v.AutomaticEnv()

	cfg := &Config{
		ProjectName:      v.GetString("PROJECT_NAME"),
		ProjectVersion:   v.GetString("PROJECT_VERSION"),
		Port:             v.GetString("PORT"),
		IsProduction:     v.GetBool("IS_PRODUCTION"),
		APIPrefix:        normalizePrefix(v.GetString("API_PREFIX")),
		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTAlgorithm:     strings.ToUpper(v.GetString("JWT_ALGORITHM")),
		JWTIssuer:        v.GetString("JWT_ISSUER"),
		StoreDriver:      strings.ToLower(v.GetString("STORE_DRIVER")),
		MongoURI:         v.GetString("MONGODB_URI"),
		MongoDatabase:    v.GetString("MONGODB_DATABASE"),
		MongoMaxPoolSize: v.GetUint64("MONGODB_MAX_POOL_SIZE"),
		DatabaseURL:      v.GetString("PGSQL_URL"),
		EnableDBCheck:    v.GetBool("ENABLE_DB_CHECK"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        v.GetString("LOG_FORMAT"),
		AuthRateLimit:    v.GetString("AUTH_RATE_LIMIT"),
		OTelEndpoint:     v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTelInsecure:     v.GetBool("OTEL_INSECURE"),
		OTelSampleRate:   v.GetFloat64("OTEL_SAMPLE_RATE"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Warn().Msgf("PORT environment variable not set. Defaulting to %s", cfg.Port)
	}

	cfg.AccessTokenExpiryDuration = parseDuration(v, "ACCESS_TOKEN_EXPIRY_DURATION", 30*time.Minute)
	cfg.RefreshTokenExpiryDuration = parseDuration(v, "REFRESH_TOKEN_EXPIRY_DURATION", 7*24*time.Hour)
	cfg.DBOperationTimeout = parseDuration(v, "DB_OPERATION_TIMEOUT", 30*time.Second)

	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, errors.New("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret
		log.Warn().Msg("JWT_SECRET environment variable not set. Using default insecure key.")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported JWT_ALGORITHM %q", c.JWTAlgorithm)
	}

	switch c.StoreDriver {
	case StoreDriverMongoDB:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			return errors.New("MONGODB_URI and MONGODB_DATABASE are required for the mongodb store")
		}
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("PGSQL_URL is required for the postgres store")
		}
	case StoreDriverMemory:
		if c.IsProduction {
			log.Warn().Msg("Using the in-memory store in production. Data will not survive a restart.")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	if c.OTelSampleRate < 0 || c.OTelSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0 and 1, got %v", c.OTelSampleRate)
	}
	return nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Warn().Msgf("Invalid value for %s ('%s'). Defaulting to %s.", key, raw, fallback)
		}
		return fallback
	}
	return d
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
