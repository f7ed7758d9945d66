package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Email    EmailConfig
	Log      LogConfig
	Metrics  MetricsConfig
	Setup    SetupConfig
}

type ServerConfig struct {
	Port           string
	Environment    string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

type DatabaseConfig struct {
	// Driver is "postgres" or "memory"
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// Embedded runs an in-process Redis, for local runs without infrastructure
	Embedded bool
}

type JWTConfig struct {
	PrivateKeyPath     string
	PublicKeyPath      string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	Issuer             string
}

type AuthConfig struct {
	CodeGenerationRetries int
	Argon2Memory          uint32
	Argon2Iterations      uint32
	Argon2Parallelism     uint8
}

type EmailConfig struct {
	// Provider is one of resend, ses, webhook, console
	Provider        string
	FromEmail       string
	FromName        string
	ResendAPIKey    string
	SESRegion       string
	WebhookURL      string
	VerificationURL string
	SetPasswordURL  string
	Timeout         time.Duration
}

type LogConfig struct {
	Level string
}

type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

type SetupConfig struct {
	// Token guards /auth/setup; empty disables the endpoint
	Token string
}

func Load() (*Config, error) {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Environment:    getEnv("ENVIRONMENT", "development"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			AllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "binder"),
			Password:        getEnv("DB_PASSWORD", "binder"),
			DBName:          getEnv("DB_NAME", "binder"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			AutoMigrate:     getBoolEnv("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			Embedded: getBoolEnv("REDIS_EMBEDDED", false),
		},
		JWT: JWTConfig{
			PrivateKeyPath:     getEnv("JWT_PRIVATE_KEY_PATH", "./keys/private.pem"),
			PublicKeyPath:      getEnv("JWT_PUBLIC_KEY_PATH", "./keys/public.pem"),
			AccessTokenExpiry:  getDurationEnv("JWT_ACCESS_EXPIRY", 1*time.Hour),
			RefreshTokenExpiry: getDurationEnv("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
			Issuer:             getEnv("JWT_ISSUER", "binder-backend"),
		},
		Auth: AuthConfig{
			CodeGenerationRetries: getIntEnv("CODE_GENERATION_RETRIES", 5),
			Argon2Memory:          uint32(getIntEnv("ARGON2_MEMORY_KB", 64*1024)),
			Argon2Iterations:      uint32(getIntEnv("ARGON2_ITERATIONS", 3)),
			Argon2Parallelism:     uint8(getIntEnv("ARGON2_PARALLELISM", 2)),
		},
		Email: EmailConfig{
			Provider:        getEnv("EMAIL_PROVIDER", "console"),
			FromEmail:       getEnv("EMAIL_FROM", "no-reply@binder.local"),
			FromName:        getEnv("EMAIL_FROM_NAME", "Binder"),
			ResendAPIKey:    getEnv("RESEND_API_KEY", ""),
			SESRegion:       getEnv("AWS_REGION", "ap-south-1"),
			WebhookURL:      getEnv("EMAIL_WEBHOOK_URL", ""),
			VerificationURL: getEnv("EMAIL_VERIFICATION_URL", "http://localhost:3000/verify-email"),
			SetPasswordURL:  getEnv("EMAIL_SET_PASSWORD_URL", "http://localhost:3000/set-password"),
			Timeout:         getDurationEnv("EMAIL_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Enabled:   getBoolEnv("METRICS_ENABLED", true),
			Namespace: getEnv("METRICS_NAMESPACE", "binder"),
		},
		Setup: SetupConfig{
			Token: getEnv("SETUP_TOKEN", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be postgres or memory, got %q", c.Database.Driver))
	}

	switch c.Email.Provider {
	case "console":
	case "resend":
		if c.Email.ResendAPIKey == "" {
			errs = append(errs, errors.New("RESEND_API_KEY is required for the resend provider"))
		}
	case "ses":
		if c.Email.SESRegion == "" {
			errs = append(errs, errors.New("AWS_REGION is required for the ses provider"))
		}
	case "webhook":
		if c.Email.WebhookURL == "" {
			errs = append(errs, errors.New("EMAIL_WEBHOOK_URL is required for the webhook provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("EMAIL_PROVIDER %q is not supported", c.Email.Provider))
	}

	if c.Auth.CodeGenerationRetries < 1 {
		errs = append(errs, errors.New("CODE_GENERATION_RETRIES must be at least 1"))
	}
	if c.JWT.AccessTokenExpiry <= 0 || c.JWT.RefreshTokenExpiry <= 0 {
		errs = append(errs, errors.New("JWT expiries must be positive"))
	}

	return errors.Join(errs...)
}

func (c *ServerConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getListEnv splits a comma separated value, dropping empty items
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
