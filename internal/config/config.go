package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	"sauna-offer-bot/internal/geo"
)

type Config struct {
	TelegramToken string  `env:"TELEGRAM_TOKEN,required"`
	AdminIDs      []int64 `env:"ADMIN_IDS" envSeparator:","`
	ReportsDir    string  `env:"REPORTS_DIR" envDefault:"reports"`

	DB        DBConfig        `envPrefix:"DB_"`
	Redis     RedisConfig     `envPrefix:"REDIS_"`
	Geocoder  GeocoderConfig  `envPrefix:"GEOCODER_"`
	Origin    OriginConfig    `envPrefix:"ORIGIN_"`
	HTTP      HTTPConfig      `envPrefix:"HTTP_"`
	Log       LogConfig       `envPrefix:"LOG_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
}

type DBConfig struct {
	Host            string        `env:"HOST,required"`
	Port            int           `env:"PORT" envDefault:"5432"`
	User            string        `env:"USER,required"`
	Password        string        `env:"PASSWORD,required"`
	Name            string        `env:"NAME,required"`
	SSLMode         string        `env:"SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"2m"`
}

type RedisConfig struct {
	Addr     string        `env:"ADDR,required"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	TTL      time.Duration `env:"TTL" envDefault:"24h"`
}

// GeocoderConfig points at a Nominatim compatible /search endpoint.
type GeocoderConfig struct {
	BaseURL     string        `env:"BASE_URL" envDefault:"https://nominatim.openstreetmap.org"`
	UserAgent   string        `env:"USER_AGENT" envDefault:"SaunaOffersApp/1.0"`
	CountryCode string        `env:"COUNTRY_CODE" envDefault:"pl"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// OriginConfig is the workshop every delivery starts from.
type OriginConfig struct {
	Lat   float64 `env:"LAT" envDefault:"52.34916"`
	Lon   float64 `env:"LON" envDefault:"17.46995"`
	Label string  `env:"LABEL" envDefault:"Zasutowo"`
}

func (o OriginConfig) Location() geo.Location {
	return geo.Location{
		Coordinate: geo.Coordinate{Lat: o.Lat, Lon: o.Lon},
		Label:      o.Label,
	}
}

type HTTPConfig struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type LogConfig struct {
	Level       string `env:"LEVEL" envDefault:"info"`
	Development bool   `env:"DEVELOPMENT" envDefault:"false"`
}

// RateLimitConfig caps quote computations per user, each of which may hit
// the public geocoder.
type RateLimitConfig struct {
	Quotes int           `env:"QUOTES" envDefault:"5"`
	Window time.Duration `env:"WINDOW" envDefault:"1m"`
}

// Load reads the environment, after merging the given dotenv files
// (".env" when none are given). Missing dotenv files are ignored and
// variables already set in the process win.
func Load(dotenv ...string) (*Config, error) {
	if err := godotenv.Load(dotenv...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load dotenv: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if len(c.AdminIDs) == 0 {
		return errors.New("at least one admin ID is required")
	}
	if err := c.Origin.Location().Validate(); err != nil {
		return fmt.Errorf("origin: %w", err)
	}
	if strings.TrimSpace(c.Origin.Label) == "" {
		return errors.New("origin label is required")
	}
	if c.Geocoder.Timeout <= 0 {
		return fmt.Errorf("geocoder timeout must be positive, got %s", c.Geocoder.Timeout)
	}
	if c.RateLimit.Quotes <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit must be positive, got %d per %s", c.RateLimit.Quotes, c.RateLimit.Window)
	}
	return nil
}
