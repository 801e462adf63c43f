// Package main validates persisted redirects against a live deployment.
//
// Usage:
//
//	go run ./cmd/validate [flags] [base-url]
//
// The base URL defaults to the preview environment. Exit code is 0 when
// every mapping behaves as resolved, 1 otherwise, so the run can gate a
// deployment pipeline.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/CyberBrown/solampio-web-sub002/internal/logger"
	"github.com/CyberBrown/solampio-web-sub002/internal/store/sqlite"
	"github.com/CyberBrown/solampio-web-sub002/internal/validate"
)

const defaultBaseURL = "https://preview.solampio.com"

var (
	batchSize  = flag.Int("batch", validate.DefaultBatchSize, "probes in flight per batch")
	timeout    = flag.Duration("timeout", validate.DefaultTimeout, "per-probe timeout")
	rate       = flag.Float64("rate", validate.DefaultRatePerSecond, "probes per second")
	reportPath = flag.String("report", "validation-report.json", "where to write the JSON report")
	dbPath     = flag.String("db", "", "mapping store path (default: $HOME/solampio/mappings.db)")
)

func main() {
	flag.Parse()

	baseURL := defaultBaseURL
	if flag.NArg() > 0 {
		baseURL = flag.Arg(0)
	}

	slogger := logger.New(logger.Config{Level: logger.ParseLevel(os.Getenv("LOG_LEVEL"))}).Logger

	db, err := sqlite.Open(resolveDBPath(*dbPath), slogger)
	if err != nil {
		log.Fatalf("open mapping store: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	mappings, err := db.ListMappings(ctx)
	if err != nil {
		log.Fatalf("list mappings: %v", err)
	}
	if len(mappings) == 0 {
		log.Fatal("mapping store is empty, nothing to validate")
	}

	harness := validate.New(validate.Config{
		BaseURL:       baseURL,
		BatchSize:     *batchSize,
		Timeout:       *timeout,
		RatePerSecond: *rate,
	}, slogger)

	started := time.Now()
	report, err := harness.Run(ctx, mappings)
	if err != nil {
		log.Fatalf("validation run: %v", err)
	}

	if err := report.WriteJSON(*reportPath); err != nil {
		log.Fatalf("write report: %v", err)
	}

	report.Summary(os.Stdout)
	slogger.Info("validation finished",
		"run_id", report.RunID,
		"duration", time.Since(started).Round(time.Millisecond),
		"report", *reportPath)

	if !report.OK() {
		os.Exit(1)
	}
}

func resolveDBPath(path string) string {
	if path != "" {
		return path
	}
	return os.ExpandEnv("$HOME/solampio/mappings.db")
}
