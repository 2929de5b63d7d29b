// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	engine "github.com/jason-s-yu/sabacc/engine"
)

// Config holds process-wide settings read from the environment.
type Config struct {
	HTTPAddr string

	RedisAddr     string // empty disables the action historian
	RedisPassword string
	DatabaseURL   string // empty disables the audit store

	JWTSecret string
	TokenTTL  time.Duration

	LogLevel  string
	LogFormat string // "text" or "json"

	// Default rules for new tables.
	HouseRules engine.HouseRules

	// CheckConservation verifies the deck invariant after every command.
	CheckConservation bool
}

// Load reads .env (if present) and the environment. Unset variables fall back to defaults.
func Load() (Config, error) {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogFormat:     getenv("LOG_FORMAT", "text"),
		HouseRules:    engine.DefaultHouseRules(),
	}

	ttl, err := time.ParseDuration(getenv("TOKEN_TTL", "12h"))
	if err != nil {
		return Config{}, fmt.Errorf("TOKEN_TTL: %w", err)
	}
	cfg.TokenTTL = ttl

	if cfg.HouseRules.NumPlayers, err = getUint8("NUM_PLAYERS", cfg.HouseRules.NumPlayers); err != nil {
		return Config{}, err
	}
	if cfg.HouseRules.MaxRounds, err = getUint8("MAX_ROUNDS", cfg.HouseRules.MaxRounds); err != nil {
		return Config{}, err
	}
	if err := cfg.HouseRules.Validate(); err != nil {
		return Config{}, fmt.Errorf("house rules: %w", err)
	}

	if v := os.Getenv("CHECK_CONSERVATION"); v != "" {
		if cfg.CheckConservation, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("CHECK_CONSERVATION: %w", err)
		}
	}

	if cfg.JWTSecret == "" {
		logrus.Warn("JWT_SECRET not set; using an insecure development secret")
		cfg.JWTSecret = "dev-secret"
	}
	return cfg, nil
}

// ConfigureLogging applies the level and format to the standard logrus logger.
func (c Config) ConfigureLogging() error {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	logrus.SetLevel(lvl)
	switch c.LogFormat {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("LOG_FORMAT: unknown format %q", c.LogFormat)
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getUint8(key string, def uint8) (uint8, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return uint8(n), nil
}
