package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"sentidash/internal/models"
)

// ReplacePosts atomically replaces every post of a dataset with records,
// keeping their order. Returns the number of rows written.
func (d *DB) ReplacePosts(ctx context.Context, dataset string, records []models.Record) (int64, error) {
	if len(records) == 0 {
		return 0, ErrEmptyDataset
	}

	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM posts WHERE dataset = $1`, dataset); err != nil {
		return 0, fmt.Errorf("failed to clear dataset: %w", err)
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"posts"},
		[]string{"id", "dataset", "position", "message", "sentiment"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			return []any{uuid.New(), dataset, int32(i), r.Text, int16(r.Sentiment)}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy posts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return n, nil
}

// LoadPosts returns every post of a dataset in import order.
func (d *DB) LoadPosts(ctx context.Context, dataset string) ([]models.Record, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT message, sentiment
		FROM posts
		WHERE dataset = $1
		ORDER BY position
	`, dataset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		var (
			r         models.Record
			sentiment int16
		)
		if err := rows.Scan(&r.Text, &sentiment); err != nil {
			return nil, err
		}
		r.Sentiment = models.SentimentLabel(sentiment)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, ErrDatasetNotFound
	}
	return records, nil
}

// CountPosts returns the number of posts stored for a dataset.
func (d *DB) CountPosts(ctx context.Context, dataset string) (int64, error) {
	var n int64
	err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE dataset = $1`, dataset).Scan(&n)
	return n, err
}
