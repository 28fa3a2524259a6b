package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/storage/redis/v3"

	"sentidash/internal/analysis"
	"sentidash/internal/cache"
	"sentidash/internal/config"
	"sentidash/internal/dataset"
	"sentidash/internal/db"
	"sentidash/internal/explorer"
	"sentidash/internal/handlers"
	"sentidash/internal/jobs"
	"sentidash/internal/logging"
	"sentidash/internal/metrics"
	"sentidash/internal/server"
	"sentidash/internal/wordcloud"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	settings, err := config.LoadYAMLConfig(cfg.ConfigFile)
	if err != nil {
		slog.Error("failed to load config file", "path", cfg.ConfigFile, "error", err)
		os.Exit(1)
	}

	stopWords, _ := analysis.ParseStopWordSource(cfg.StopWords)
	filter := analysis.NewFilter(analysis.FilterConfig{
		ExcludedTerms:  settings.Analysis.ExcludedTerms,
		ExtraStopWords: settings.Analysis.ExtraStopWords,
		URLPrefixes:    settings.Analysis.URLPrefixes,
		StopWords:      stopWords,
	})

	// Database - optional unless posts are stored in Postgres
	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer database.Close()

		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations completed successfully")
	}

	ds, err := loadDataset(ctx, cfg, database)
	if err != nil {
		slog.Error("failed to load dataset", "source", cfg.DataSource, "error", err)
		os.Exit(1)
	}
	metrics.DatasetRecords.Set(float64(ds.Len()))
	slog.Info("dataset loaded", "source", ds.Source, "records", ds.Len(), "id", ds.ID)

	// Keyword lookups are persisted in batches when a database is available
	var jobsWG sync.WaitGroup
	if database != nil {
		recorder := jobs.NewLookupRecorder(database, cfg.FlushInterval)
		jobsWG.Add(1)
		go func() {
			defer jobsWG.Done()
			recorder.Start(ctx)
		}()
		metrics.Init(database, recorder)
	}

	// Redis backs both sessions and the shared frequency cache
	var (
		sessionStorage fiber.Storage
		sharedCache    cache.Storage
	)
	if cfg.RedisURL != "" {
		store := redis.New(redis.Config{URL: cfg.RedisURL})
		defer store.Close()
		sessionStorage = store
		sharedCache = store
		slog.Info("using redis for sessions and frequency cache")
	}

	fc := cache.NewFrequencyCache(sharedCache, cfg.CacheTTL)
	e := explorer.New(ds, filter, fc, wordcloud.Options{MaxWords: cfg.CloudMaxWords})

	// Build the frequency table before accepting traffic
	if _, err := e.Overview(ctx); err != nil {
		slog.Warn("failed to pre-compute frequency table", "error", err)
	}

	checks := map[string]handlers.Pinger{}
	if database != nil {
		checks["postgres"] = database
	}

	srv := server.New(cfg, sessionStorage)
	if err := srv.RegisterRoutes(ctx, server.Deps{
		Explorer: e,
		Settings: settings,
		Checks:   checks,
	}); err != nil {
		slog.Error("failed to register routes", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	if err := srv.Shutdown(); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	cancel()
	jobsWG.Wait()
	slog.Info("server exited")
}

// loadDataset reads posts from the configured source. A CSV without the
// message column is a configuration error and stops startup.
func loadDataset(ctx context.Context, cfg *config.Config, database *db.DB) (*dataset.Dataset, error) {
	switch cfg.DataSource {
	case config.SourcePostgres:
		records, err := database.LoadPosts(ctx, cfg.DatasetName)
		if err != nil {
			return nil, err
		}
		return dataset.New(cfg.DatasetName, records), nil
	case config.SourceCSV:
		return dataset.LoadCSV(cfg.DataFile)
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
	}
}
