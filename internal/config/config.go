package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Prefix for environment variables; PORT reads PORTFOLIO_PORT and falls back
// to plain PORT.
const Prefix = "PORTFOLIO"

const (
	SourceSheets   = "sheets"
	SourceCSV      = "csv"
	SourceXLSX     = "xlsx"
	SourcePostgres = "postgres"
)

type Config struct {
	Port      string `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn warning error"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`

	Source        string        `envconfig:"SOURCE" default:"sheets" validate:"oneof=sheets csv xlsx postgres"`
	SheetID       string        `envconfig:"SHEET_ID" validate:"required_if=Source sheets"`
	SheetGID      string        `envconfig:"SHEET_GID" default:"0"`
	SheetsBaseURL string        `envconfig:"SHEETS_BASE_URL" default:"https://docs.google.com" validate:"required,url"`
	FetchTimeout  time.Duration `envconfig:"FETCH_TIMEOUT" default:"15s" validate:"gt=0"`
	File          string        `envconfig:"FILE" validate:"required_if=Source csv,required_if=Source xlsx"`
	XLSXSheet     string        `envconfig:"XLSX_SHEET"`
	PostgresURL   string        `envconfig:"POSTGRES_URL" validate:"required_if=Source postgres"`

	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"5m" validate:"gte=0"`
	TopN            int           `envconfig:"TOP_N" default:"10" validate:"min=1"`
	ForeignMarkers  []string      `envconfig:"FOREIGN_MARKERS" default:"us" validate:"min=1,dive,required"`
}

// Load reads an optional .env file, then the environment, and validates the
// result.
func Load() (*Config, error) {
	// .env is optional, e.g. absent in production
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Logger builds the process logger from the logging settings.
func (c *Config) Logger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
