package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// LookupStore persists aggregated keyword lookup counts.
type LookupStore interface {
	IncrementKeywordLookup(ctx context.Context, keyword, outcome string, n int64) error
}

type lookupKey struct {
	keyword string
	outcome string
}

// LookupRecorder buffers keyword lookups in memory and flushes them to the
// store on a fixed interval, so a burst of queries costs one upsert per
// keyword and outcome.
type LookupRecorder struct {
	store    LookupStore
	interval time.Duration

	mu      sync.Mutex
	pending map[lookupKey]int64
}

// DefaultFlushInterval is used when NewLookupRecorder is given a
// non-positive interval.
const DefaultFlushInterval = 10 * time.Second

// NewLookupRecorder creates a new lookup recorder.
func NewLookupRecorder(store LookupStore, interval time.Duration) *LookupRecorder {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	return &LookupRecorder{
		store:    store,
		interval: interval,
		pending:  make(map[lookupKey]int64),
	}
}

// Record buffers one lookup. It never blocks on the store.
func (r *LookupRecorder) Record(keyword, outcome string) {
	r.mu.Lock()
	r.pending[lookupKey{keyword: keyword, outcome: outcome}]++
	r.mu.Unlock()
}

// Start runs the flush loop until ctx is cancelled, then flushes what is
// left with a short deadline.
func (r *LookupRecorder) Start(ctx context.Context) {
	slog.Info("lookup recorder started", "interval", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			r.Flush(flushCtx)
			cancel()
			slog.Info("lookup recorder stopped")
			return
		case <-ticker.C:
			r.Flush(ctx)
		}
	}
}

// Flush writes every buffered count to the store. Counts that fail to write
// are put back for the next flush.
func (r *LookupRecorder) Flush(ctx context.Context) {
	r.mu.Lock()
	batch := r.pending
	r.pending = make(map[lookupKey]int64)
	r.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	var failed int
	for key, n := range batch {
		if err := r.store.IncrementKeywordLookup(ctx, key.keyword, key.outcome, n); err != nil {
			failed++
			r.mu.Lock()
			r.pending[key] += n
			r.mu.Unlock()
			slog.Error("failed to record keyword lookup", "keyword", key.keyword, "outcome", key.outcome, "error", err)
		}
	}

	slog.Debug("lookup recorder flushed", "keys", len(batch), "failed", failed)
}

// Pending returns the number of buffered keyword/outcome pairs.
func (r *LookupRecorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
