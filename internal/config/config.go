package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultPaymentTimeout applies when PAYMENT_TIMEOUT is unset.
const DefaultPaymentTimeout = 15 * time.Second

// Config holds the order service settings.
type Config struct {
	AppPort         string
	DatabaseDriver  string
	DatabaseDSN     string
	JWTSecret       string
	StripeSecretKey string
	DomainName      string
	PaymentTimeout  time.Duration
	LogLevel        string
}

// Load reads configuration from the environment, after loading an optional .env file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=orders port=5432 sslmode=disable")
	v.SetDefault("DOMAIN_NAME", "localhost")
	v.SetDefault("PAYMENT_TIMEOUT", "15s")
	v.SetDefault("LOG_LEVEL", "info")
	v.AutomaticEnv()

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppPort:         v.GetString("APP_PORT"),
		DatabaseDriver:  v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		StripeSecretKey: v.GetString("STRIPE_SECRET_KEY"),
		DomainName:      v.GetString("DOMAIN_NAME"),
		LogLevel:        v.GetString("LOG_LEVEL"),
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET must be set")
	}

	timeout, err := parsePaymentTimeout(v.GetString("PAYMENT_TIMEOUT"))
	if err != nil {
		return Config{}, err
	}
	cfg.PaymentTimeout = timeout
	return cfg, nil
}

// parsePaymentTimeout requires a positive duration with a unit, e.g. "15s".
func parsePaymentTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultPaymentTimeout, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("PAYMENT_TIMEOUT %q is not a duration: %w", raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("PAYMENT_TIMEOUT must be positive, got %s", d)
	}
	return d, nil
}

// SetupLogger installs a JSON slog logger as the process default.
func SetupLogger(w io.Writer, level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
