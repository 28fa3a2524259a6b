// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"sentidash/internal/db"
	"sentidash/internal/models"
)

// TestDB creates a test database connection and returns a cleanup function.
// Tests are skipped unless TEST_DATABASE_URL is set.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database test")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanup := func() {
		cleanupTestData(ctx, database.Pool)
		database.Close()
	}

	return database, cleanup
}

// cleanupTestData removes all test data from the database.
func cleanupTestData(ctx context.Context, pool *pgxpool.Pool) {
	pool.Exec(ctx, "DELETE FROM posts")
	pool.Exec(ctx, "DELETE FROM keyword_lookups")
}

// SampleRecords returns a small labelled dataset used across package tests.
func SampleRecords() []models.Record {
	return []models.Record{
		{Text: "Climate change is real", Sentiment: models.SentimentPro},
		{Text: "I don't care", Sentiment: models.SentimentNeutral},
		{Text: "Climate change is a hoax", Sentiment: models.SentimentAnti},
		{Text: "Arctic ice hits record low https://t.co/abc", Sentiment: models.SentimentNews},
		{Text: "Climate change is real", Sentiment: models.SentimentPro},
	}
}
