// Command migrate runs the legacy-export migration pipeline once and prints
// the resulting statistics. It is safe to re-run: the natural-key dedup
// makes both passes idempotent.
//
// Usage:
//
//	migrate -input legacy_export.xml          # initial import
//	migrate -input legacy_export.xml -fixup   # reconciliation pass
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/warranty-migration/internal/config"
	"github.com/iliyamo/warranty-migration/internal/database"
	"github.com/iliyamo/warranty-migration/internal/service"
)

func main() {
	input := flag.String("input", "", "path to the legacy export (defaults to MIGRATION_INPUT)")
	fixup := flag.Bool("fixup", false, "run the reconciliation pass instead of the initial import")
	verbose := flag.Bool("v", false, "log per-row detail")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level).
		Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.Load()
	path := *input
	if path == "" {
		path = cfg.InputPath
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "no input: pass -input or set MIGRATION_INPUT")
		os.Exit(2)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not open target database")
	}
	defer db.Close()

	svc := &service.Migration{
		DB:    db,
		Redis: config.NewRedisClient(),
		Log:   logger,
	}
	stats, runErr := svc.Execute(context.Background(), path, *fixup)

	// The statistics go to stdout as JSON so operators can archive them;
	// everything else goes to stderr.
	out, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(out))

	switch {
	case errors.Is(runErr, service.ErrRunInProgress):
		logger.Error().Msg("another migration run is in progress")
		os.Exit(3)
	case runErr != nil:
		logger.Error().Err(runErr).Msg("migration aborted; statistics above are partial (retry is safe)")
		os.Exit(1)
	}
	logger.Info().Int("imported", stats.TotalImported()).Int("row_errors", len(stats.Errors)).
		Msg("migration completed")
}
