package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingJWTSecret is returned when no token signing secret is configured.
var ErrMissingJWTSecret = errors.New("AUTH_JWT_SECRET must be set")

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Mongo    MongoConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Scrape   ScrapeConfig
	GeoIP    GeoIPConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	StaticDir             string
	AllowedOrigins        []string
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

// MongoConfig holds the document store connection values.
type MongoConfig struct {
	URI      string
	Database string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret      string
	BcryptCost     int
	RateLimitRPS   float64
	RateLimitBurst int
}

// ScrapeConfig controls the Trello board scraper.
type ScrapeConfig struct {
	Enabled  bool
	BoardURL string
	DailyAt  string
	Timeout  time.Duration
}

// GeoIPConfig controls visitor geolocation.
type GeoIPConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Load reads configuration from the environment (and an optional .env file), applying defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name:                  v.GetString("APP_NAME"),
			Env:                   v.GetString("APP_ENV"),
			Host:                  v.GetString("APP_HOST"),
			Port:                  v.GetString("APP_PORT"),
			Version:               v.GetString("APP_VERSION"),
			RequestTimeoutSeconds: v.GetInt("HTTP_REQUEST_TIMEOUT_SECONDS"),
			StaticDir:             v.GetString("STATIC_DIR"),
			AllowedOrigins:        splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Postgres: PostgresConfig{
			DSN:            v.GetString("POSTGRES_DSN"),
			MaxConns:       v.GetInt32("POSTGRES_MAX_CONNS"),
			MinConns:       v.GetInt32("POSTGRES_MIN_CONNS"),
			RunMigrations:  v.GetBool("POSTGRES_RUN_MIGRATIONS"),
			ConnMaxIdleSec: v.GetInt32("POSTGRES_CONN_MAX_IDLE_SECONDS"),
			ConnMaxLifeSec: v.GetInt32("POSTGRES_CONN_MAX_LIFE_SECONDS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DATABASE"),
		},
		Logger: LoggerConfig{
			Level:      v.GetString("LOG_LEVEL"),
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
			Compress:   v.GetBool("LOG_COMPRESS"),
		},
		Auth: AuthConfig{
			JWTSecret:      strings.TrimSpace(v.GetString("AUTH_JWT_SECRET")),
			BcryptCost:     v.GetInt("AUTH_BCRYPT_COST"),
			RateLimitRPS:   v.GetFloat64("AUTH_RATE_LIMIT_RPS"),
			RateLimitBurst: v.GetInt("AUTH_RATE_LIMIT_BURST"),
		},
		Scrape: ScrapeConfig{
			Enabled:  v.GetBool("SCRAPE_ENABLED"),
			BoardURL: v.GetString("SCRAPE_BOARD_URL"),
			DailyAt:  v.GetString("SCRAPE_DAILY_AT"),
			Timeout:  v.GetDuration("SCRAPE_TIMEOUT"),
		},
		GeoIP: GeoIPConfig{
			BaseURL: strings.TrimRight(v.GetString("GEOIP_BASE_URL"), "/"),
			Timeout: v.GetDuration("GEOIP_TIMEOUT"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if _, _, err := cfg.Scrape.DailyClock(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "report-tracker")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_HOST", "0.0.0.0")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_VERSION", "dev")
	v.SetDefault("HTTP_REQUEST_TIMEOUT_SECONDS", 30)
	v.SetDefault("STATIC_DIR", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:4200")

	v.SetDefault("POSTGRES_DSN", "")
	v.SetDefault("POSTGRES_MAX_CONNS", 10)
	v.SetDefault("POSTGRES_MIN_CONNS", 2)
	v.SetDefault("POSTGRES_RUN_MIGRATIONS", true)
	v.SetDefault("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)
	v.SetDefault("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("MONGO_URI", "")
	v.SetDefault("MONGO_DATABASE", "report_tracker")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("LOG_MAX_AGE_DAYS", 14)
	v.SetDefault("LOG_COMPRESS", false)

	v.SetDefault("AUTH_JWT_SECRET", "")
	v.SetDefault("AUTH_BCRYPT_COST", 10)
	v.SetDefault("AUTH_RATE_LIMIT_RPS", 5)
	v.SetDefault("AUTH_RATE_LIMIT_BURST", 10)

	v.SetDefault("SCRAPE_ENABLED", true)
	v.SetDefault("SCRAPE_BOARD_URL", "https://trello.com/b/9f4FWdJp/aistraix-chess-association.json")
	v.SetDefault("SCRAPE_DAILY_AT", "02:00")
	v.SetDefault("SCRAPE_TIMEOUT", 30*time.Second)

	v.SetDefault("GEOIP_BASE_URL", "https://ipapi.co")
	v.SetDefault("GEOIP_TIMEOUT", 5*time.Second)
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

// DailyClock parses DailyAt ("HH:MM") into hour and minute.
func (s ScrapeConfig) DailyClock() (int, int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s.DailyAt))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid SCRAPE_DAILY_AT %q: %w", s.DailyAt, err)
	}
	return t.Hour(), t.Minute(), nil
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
