// Command feetracker-import loads a versioned JSON backup (the
// /api/export/backup.json format) into the blob store, replacing both
// collections.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"feetracker/internal/config"
	"feetracker/internal/export"
	"feetracker/internal/kvstore"
	"feetracker/internal/ledger"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	file := flag.String("file", "", "path to the JSON backup to import")
	flag.Parse()
	if *file == "" {
		logger.Error("Usage: feetracker-import -file dump.json")
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		logger.Error("Failed to open dump file", "error", err, "file", *file)
		os.Exit(1)
	}
	defer f.Close()

	dump, err := export.ReadDump(f)
	if err != nil {
		logger.Error("Failed to parse dump", "error", err, "file", *file)
		os.Exit(1)
	}

	store, err := kvstore.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open blob store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	book := ledger.New(store)
	if err := book.Replace(context.Background(), dump.Students, dump.FeeRecords); err != nil {
		logger.Error("Import failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Import complete",
		"students", len(dump.Students),
		"fee_records", len(dump.FeeRecords),
		"dump_version", dump.Version,
		"exported_at", dump.ExportDate)
}
