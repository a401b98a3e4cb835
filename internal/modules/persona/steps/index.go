package steps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultBatchSize     = 10
	defaultConcurrency   = 1
	defaultInterBatch    = 2 * time.Second
	defaultRetryAttempts = 7
	defaultRetryBackoff  = 5 * time.Second
)

// IndexChats builds the session's similarity index from the loaded
// conversation. Construction is idempotent: once a session carries an index it
// is never rebuilt or replaced. Batches are embedded under a per-session
// concurrency cap with exponential-backoff retry; a terminated session aborts
// at the next batch boundary without retrying.
func IndexChats(ctx context.Context, deps Deps, st State) (Patch, error) {
	log := deps.Log.With("step", "indexChats", "session_id", st.SessionID)

	if st.Index != nil {
		log.Debug("Similarity index already exists, skipping")
		return Patch{}, nil
	}

	docs := make([]string, 0, len(st.Messages))
	for _, m := range st.Messages {
		docs = append(docs, m.Content)
	}
	if len(docs) == 0 {
		log.Info("No documents to index")
		return Patch{}, nil
	}

	batchSize := deps.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	concurrency := deps.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	interBatch := deps.InterBatchDelay
	if interBatch < 0 {
		interBatch = defaultInterBatch
	}
	attempts := deps.RetryAttempts
	if attempts <= 0 {
		attempts = defaultRetryAttempts
	}
	baseBackoff := deps.RetryBackoff
	if baseBackoff <= 0 {
		baseBackoff = defaultRetryBackoff
	}

	store, err := deps.NewIndex()
	if err != nil {
		return Patch{}, fmt.Errorf("create similarity index: %w", err)
	}

	totalBatches := (len(docs) + batchSize - 1) / batchSize
	log.Info("Indexing chat messages", "documents", len(docs), "batches", totalBatches, "batch_size", batchSize)

	var (
		progressMu       sync.Mutex
		completedBatches int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := 0; i < len(docs); i += batchSize {
		end := i + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		start := i
		batch := docs[i:end]

		g.Go(func() error {
			backoff := baseBackoff
			for attempt := 1; ; attempt++ {
				if st.Terminated != nil && st.Terminated() {
					log.Info("Session terminated, aborting indexing", "batch_start", start)
					return ErrSessionTerminated
				}
				if gctx.Err() != nil {
					return gctx.Err()
				}

				err := store.AddDocuments(gctx, batch)
				if err == nil {
					break
				}
				if attempt >= attempts {
					return fmt.Errorf("index batch starting at %d: %w", start, err)
				}
				log.Warn("Batch embedding failed, retrying",
					"batch_start", start,
					"attempt", attempt,
					"attempts_left", attempts-attempt,
					"backoff", backoff.String(),
					"error", err.Error(),
				)
				if werr := waitBackoff(gctx, backoff, st.Terminated); werr != nil {
					if errors.Is(werr, ErrSessionTerminated) {
						log.Info("Session terminated during backoff, aborting indexing", "batch_start", start)
					}
					return werr
				}
				backoff *= 2
			}

			progressMu.Lock()
			completedBatches++
			percent := int(math.Ceil(float64(completedBatches) / float64(totalBatches) * 100))
			if deps.Notify != nil {
				// Emitted under the lock so observed percentages never go
				// backwards when concurrency > 1.
				deps.Notify.IndexProgress(st.SessionID, percent)
			}
			progressMu.Unlock()

			log.Debug("Batch indexed", "batch_start", start, "percent", percent)

			// Keeps the concurrency slot occupied to respect embedding
			// provider rate limits.
			if interBatch > 0 {
				time.Sleep(interBatch)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Patch{}, err
	}

	log.Info("Finished indexing all documents", "documents", len(docs))
	return Patch{Index: store}, nil
}

// waitBackoff sleeps for d, waking early when the context is cancelled or the
// session terminates. Termination is a flag, not a channel, so it is polled.
func waitBackoff(ctx context.Context, d time.Duration, terminated func() bool) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if terminated != nil && terminated() {
				return ErrSessionTerminated
			}
		}
	}
}
