package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sickfits/sickfits-go/internal/notify"
)

const defaultSecret = "dev-secret-change-in-production"

var ErrDefaultSecret = errors.New("APP_SECRET must be set in production environment")

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	DatabaseDSN string
	AppSecret   string
	SessionTTL  time.Duration
	FrontendURL string

	Mail notify.SMTPConfig

	RedisAddr      string
	RedisPassword  string
	RateLimitRPS   float64
	RateLimitBurst int

	// TrustProxy honours X-Forwarded-For and X-Real-IP. Enable only behind
	// a proxy that overwrites those headers.
	TrustProxy bool
}

// IsProduction reports whether ENV is "production".
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env files if present, then the environment. CONFIG_FILE may
// name a YAML, JSON or TOML file whose keys match the environment names.
func Load() (Config, error) {
	// Missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Port:        v.GetString("PORT"),
		Env:         strings.ToLower(v.GetString("ENV")),
		LogLevel:    v.GetString("LOG_LEVEL"),
		DatabaseDSN: v.GetString("DATABASE_DSN"),
		AppSecret:   v.GetString("APP_SECRET"),
		SessionTTL:  v.GetDuration("SESSION_TTL"),
		FrontendURL: v.GetString("FRONTEND_URL"),
		Mail: notify.SMTPConfig{
			Host:    v.GetString("MAIL_HOST"),
			Port:    v.GetInt("MAIL_PORT"),
			Service: v.GetString("MAIL_SERVICE"),
			User:    v.GetString("MAIL_USER"),
			Pass:    v.GetString("MAIL_PASS"),
			From:    v.GetString("MAIL_FROM"),
		},
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
		TrustProxy:     v.GetBool("TRUST_PROXY"),
	}

	if cfg.IsProduction() && cfg.AppSecret == defaultSecret {
		return Config{}, ErrDefaultSecret
	}
	if cfg.SessionTTL < 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must not be negative, got %s", cfg.SessionTTL)
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "4444")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("APP_SECRET", defaultSecret)
	v.SetDefault("SESSION_TTL", "0s")
	v.SetDefault("FRONTEND_URL", "http://localhost:7777")
	v.SetDefault("MAIL_HOST", "")
	v.SetDefault("MAIL_PORT", 0)
	v.SetDefault("MAIL_SERVICE", "")
	v.SetDefault("MAIL_USER", "")
	v.SetDefault("MAIL_PASS", "")
	v.SetDefault("MAIL_FROM", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("TRUST_PROXY", false)
}
