package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config holds every runtime setting of the service.
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	DBDriver string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBPath   string `env:"DB_PATH" envDefault:"raisin_tracker.db"`
	DBDSN    string `env:"DB_DSN"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Timezone string `env:"TIMEZONE" envDefault:"UTC"`

	// RatePerKg is paid per kilogram cleaned. Only used by the server when
	// ComputeEarnings is set; otherwise callers supply earnings themselves.
	RatePerKg       decimal.Decimal `env:"RATE_PER_KG" envDefault:"3"`
	ComputeEarnings bool            `env:"COMPUTE_EARNINGS" envDefault:"false"`
	CurrencySymbol  string          `env:"CURRENCY_SYMBOL" envDefault:"₹"`

	// PDFFontPath is an optional TrueType font for PDF exports, needed for
	// names outside Latin-1.
	PDFFontPath string `env:"PDF_FONT_PATH"`

	CORSAllowOrigin string  `env:"CORS_ALLOW_ORIGIN" envDefault:"*"`
	RateLimitRPS    float64 `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst  int     `env:"RATE_LIMIT_BURST" envDefault:"100"`

	StatsInterval   time.Duration `env:"STATS_BROADCAST_INTERVAL" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads .env (if present) into the process environment and parses it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse(env.ToMap(os.Environ()))
}

// Parse builds a Config from the given variables, applying defaults for
// anything unset.
func Parse(environ map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no variables are set.
func Default() *Config {
	cfg, err := Parse(map[string]string{})
	if err != nil {
		panic(err)
	}
	return cfg
}

// Location resolves Timezone; "today" and week boundaries are computed in it.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) validate() error {
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported GIN_MODE %q", c.GinMode)
	}
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	switch c.DBDriver {
	case DriverSQLite:
	case DriverMySQL:
		if c.DBDSN == "" {
			return errors.New("DB_DSN is required when DB_DRIVER=mysql")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.RatePerKg.IsNegative() {
		return errors.New("RATE_PER_KG must not be negative")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.PDFFontPath != "" {
		if _, err := os.Stat(c.PDFFontPath); err != nil {
			return fmt.Errorf("PDF_FONT_PATH: %w", err)
		}
	}
	return nil
}
