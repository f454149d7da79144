// Command snapshot fetches the portfolio once, runs the pipeline and prints
// the resulting dashboard as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"portfolioboard/internal/app"
	"portfolioboard/internal/config"
	"portfolioboard/internal/pipeline"
)

func main() {
	src := flag.String("source", "", "override source: sheets, csv, xlsx or postgres")
	file := flag.String("file", "", "path of the csv/xlsx export")
	flag.Parse()

	if *src != "" {
		os.Setenv(config.Prefix+"_SOURCE", *src)
	}
	if *file != "" {
		os.Setenv(config.Prefix+"_FILE", *file)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := cfg.Logger()
	logger.SetOutput(os.Stderr)

	s, closeSrc, err := app.OpenSource(cfg, logger)
	if err != nil {
		logger.Fatalf("source: %v", err)
	}
	defer closeSrc()

	t, err := s.Fetch(context.Background())
	if err != nil {
		logger.Fatalf("data unavailable: %v", err)
	}
	d, err := pipeline.New(app.PipelineOptions(cfg), logger).Run(s.Name(), t)
	if err != nil {
		logger.Fatalf("pipeline: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		logger.Fatalf("encode: %v", err)
	}
}
