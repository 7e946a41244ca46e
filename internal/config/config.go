package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Environment   string `mapstructure:"ENV"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`
	HTTPAddr      string `mapstructure:"HTTP_ADDR"`

	APIBaseURL       string        `mapstructure:"API_BASE_URL"`
	APITimeout       time.Duration `mapstructure:"API_TIMEOUT"`
	APIRatePerSecond float64       `mapstructure:"API_RATE_PER_SECOND"`
	APIBurst         int           `mapstructure:"API_BURST"`
	TokenFile        string        `mapstructure:"TOKEN_FILE"`

	BusinessOffsetMinutes int    `mapstructure:"BUSINESS_UTC_OFFSET_MINUTES"`
	AvailabilitySource    string `mapstructure:"AVAILABILITY_SOURCE"`
	PrefetchDays          int    `mapstructure:"PREFETCH_DAYS"`

	SessionIdleTTL       time.Duration `mapstructure:"SESSION_IDLE_TTL"`
	SessionSweepInterval time.Duration `mapstructure:"SESSION_SWEEP_INTERVAL"`
}

var keys = []string{
	"ENV", "LOG_LEVEL", "TELEGRAM_TOKEN", "HTTP_ADDR",
	"API_BASE_URL", "API_TIMEOUT", "API_RATE_PER_SECOND", "API_BURST", "TOKEN_FILE",
	"BUSINESS_UTC_OFFSET_MINUTES", "AVAILABILITY_SOURCE", "PREFETCH_DAYS",
	"SESSION_IDLE_TTL", "SESSION_SWEEP_INTERVAL",
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromViper(viper.New())
}

// FromViper читает конфигурацию из переменных окружения через v
func FromViper(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	setDefaults(v)

	// AutomaticEnv не видит ключи без значения при Unmarshal
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Printf("Config loaded\n")
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("API_TIMEOUT", 10*time.Second)
	v.SetDefault("API_RATE_PER_SECOND", 10.0)
	v.SetDefault("API_BURST", 5)
	v.SetDefault("TOKEN_FILE", ".agenda/token")
	v.SetDefault("BUSINESS_UTC_OFFSET_MINUTES", -180)
	v.SetDefault("AVAILABILITY_SOURCE", "client")
	v.SetDefault("PREFETCH_DAYS", 7)
	v.SetDefault("SESSION_IDLE_TTL", 30*time.Minute)
	v.SetDefault("SESSION_SWEEP_INTERVAL", 5*time.Minute)
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("API_BASE_URL is required but not set")
	}
	if c.TelegramToken == "" && c.HTTPAddr == "" {
		return fmt.Errorf("either TELEGRAM_TOKEN or HTTP_ADDR must be set")
	}
	if c.BusinessOffsetMinutes < -14*60 || c.BusinessOffsetMinutes > 14*60 {
		return fmt.Errorf("BUSINESS_UTC_OFFSET_MINUTES out of range: %d", c.BusinessOffsetMinutes)
	}
	if c.PrefetchDays < 1 || c.PrefetchDays > 31 {
		return fmt.Errorf("PREFETCH_DAYS must be between 1 and 31, got %d", c.PrefetchDays)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive, got %s", c.APITimeout)
	}
	if c.TelegramToken != "" {
		if c.SessionIdleTTL <= 0 {
			return fmt.Errorf("SESSION_IDLE_TTL must be positive, got %s", c.SessionIdleTTL)
		}
		if c.SessionSweepInterval <= 0 {
			return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive, got %s", c.SessionSweepInterval)
		}
	}
	return nil
}
