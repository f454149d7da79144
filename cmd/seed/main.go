package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"portfolioboard/internal/app"
	"portfolioboard/internal/database"
	"portfolioboard/internal/source"
)

func main() {
	file := flag.String("file", "", "csv or xlsx export to load into portfolio_rows")
	flag.Parse()

	godotenv.Load()
	dbURL := os.Getenv("POSTGRES_URL")
	if dbURL == "" {
		log.Fatal("POSTGRES_URL is required")
	}
	if *file == "" {
		log.Fatal("-file is required")
	}

	logger := logrus.New()
	db, err := app.InitDB(dbURL)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer db.Close()

	var src source.Source = source.NewCSVFile(*file, logger)
	if strings.EqualFold(filepath.Ext(*file), ".xlsx") {
		src = source.NewXLSXFile(*file, "", logger)
	}

	ctx := context.Background()
	t, err := src.Fetch(ctx)
	if err != nil {
		log.Fatalf("read %s: %v", *file, err)
	}
	n, err := database.New(db, logger).ReplaceRows(ctx, t)
	if err != nil {
		log.Fatalf("store rows: %v", err)
	}
	fmt.Printf("Loaded %d rows from %s into portfolio_rows\n", n, *file)
}
