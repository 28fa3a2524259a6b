// Command import loads a labelled CSV into Postgres so the dashboard can run
// with DATA_SOURCE=postgres.
//
// Usage:
//
//	import [path/to/posts.csv]
//
// The path defaults to DATA_FILE and the dataset name to DATASET_NAME.
// Existing posts of the dataset are replaced.
package main

import (
	"context"
	"log/slog"
	"os"

	"sentidash/internal/config"
	"sentidash/internal/dataset"
	"sentidash/internal/db"
	"sentidash/internal/logging"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	path := cfg.DataFile
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	ds, err := dataset.LoadCSV(path)
	if err != nil {
		slog.Error("failed to read dataset", "path", path, "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	n, err := database.ReplacePosts(ctx, cfg.DatasetName, ds.Records)
	if err != nil {
		slog.Error("failed to import posts", "dataset", cfg.DatasetName, "error", err)
		os.Exit(1)
	}
	slog.Info("import complete", "dataset", cfg.DatasetName, "path", path, "posts", n, "id", ds.ID)
}
