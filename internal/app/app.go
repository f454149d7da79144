package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"portfolioboard/internal/config"
	"portfolioboard/internal/database"
	"portfolioboard/internal/pipeline"
	"portfolioboard/internal/source"
)

// OpenSource builds the configured source. The returned close func must be
// called when the source is no longer needed.
func OpenSource(cfg *config.Config, log *logrus.Logger) (source.Source, func(), error) {
	noop := func() {}
	switch cfg.Source {
	case config.SourceSheets:
		return source.NewSheets(source.SheetsConfig{
			SheetID: cfg.SheetID,
			GID:     cfg.SheetGID,
			BaseURL: cfg.SheetsBaseURL,
			Timeout: cfg.FetchTimeout,
		}, log), noop, nil
	case config.SourceCSV:
		return source.NewCSVFile(cfg.File, log), noop, nil
	case config.SourceXLSX:
		return source.NewXLSXFile(cfg.File, cfg.XLSXSheet, log), noop, nil
	case config.SourcePostgres:
		db, err := InitDB(cfg.PostgresURL)
		if err != nil {
			return nil, noop, fmt.Errorf("db connect failed: %w", err)
		}
		return database.New(db, log), func() { db.Close() }, nil
	}
	return nil, noop, fmt.Errorf("unknown source %q", cfg.Source)
}

func PipelineOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{ForeignMarkers: cfg.ForeignMarkers, TopN: cfg.TopN}
}

func InitDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return db, nil
}
