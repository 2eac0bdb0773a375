package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const Development = "development"

// Config holds all runtime settings read from the environment
type Config struct {
	Port        string `env:"PORT" envDefault:"8000"`
	GinMode     string `env:"GIN_MODE"`
	Environment string `env:"APP_ENV" envDefault:"development"`

	DatabaseURL string `env:"DATABASE_URL"`
	DataPath    string `env:"DATA_PATH" envDefault:"shiftdock.db"`

	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	RefreshTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	OTPTTL       time.Duration `env:"OTP_TTL" envDefault:"5m"`
	OTPLength    int           `env:"OTP_LENGTH" envDefault:"6"`
	OTPDevCode   string        `env:"OTP_DEV_CODE"`
	OTPHashCost  int           `env:"OTP_HASH_COST" envDefault:"10"`
	OTPStore     string        `env:"OTP_STORE" envDefault:"memory"` // memory or redis
	OTPRateLimit string        `env:"OTP_RATE_LIMIT" envDefault:"5-M"`
	RedisURL     string        `env:"REDIS_URL"`

	MetricsPath string `env:"METRICS_PATH" envDefault:"/metrics"`
}

// LoadEnvFiles loads the first .env found among the given paths
func LoadEnvFiles(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return p
		}
	}
	return ""
}

// Load reads .env files if present and parses the environment
func Load() (*Config, error) {
	LoadEnvFiles([]string{".env", "../.env", "../../.env"})
	return Parse()
}

// Parse builds a Config from the current process environment
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects inconsistent settings
func (c *Config) Validate() error {
	switch c.OTPStore {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when OTP_STORE is 'redis'")
		}
	default:
		return fmt.Errorf("OTP_STORE must be 'memory' or 'redis', got '%s'", c.OTPStore)
	}
	if c.OTPLength < 4 || c.OTPLength > 10 {
		return fmt.Errorf("OTP_LENGTH must be between 4 and 10, got %d", c.OTPLength)
	}
	if c.JWTSecret == "" && c.Environment != Development {
		return fmt.Errorf("JWT_SECRET is required outside development")
	}
	return nil
}

// Secret returns the signing secret, falling back to a fixed value in development
func (c *Config) Secret() []byte {
	if c.JWTSecret == "" {
		return []byte("shiftdock-development-secret")
	}
	return []byte(c.JWTSecret)
}

// LogrusLevel maps LOG_LEVEL onto a logrus level
func (c *Config) LogrusLevel() logrus.Level {
	switch strings.ToLower(c.LogLevel) {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

// Logger builds the process logger
func (c *Config) Logger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(c.LogrusLevel())
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger
}
