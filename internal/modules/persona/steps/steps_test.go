package steps

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/personachat-backend/internal/clients/groq"
	"github.com/yungbote/personachat-backend/internal/platform/logger"
	"github.com/yungbote/personachat-backend/internal/vector"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

// fakeStore records AddDocuments batches and serves canned search results.
type fakeStore struct {
	mu         sync.Mutex
	batches    [][]string
	addErrs    []error // consumed per call; nil entry means success
	matches    []string
	searches   []string
	searchedKs []int
}

func (s *fakeStore) AddDocuments(ctx context.Context, docs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.addErrs) > 0 {
		err := s.addErrs[0]
		s.addErrs = s.addErrs[1:]
		if err != nil {
			return err
		}
	}
	batch := make([]string, len(docs))
	copy(batch, docs)
	s.batches = append(s.batches, batch)
	return nil
}

func (s *fakeStore) SimilaritySearch(ctx context.Context, query string, k int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches = append(s.searches, query)
	s.searchedKs = append(s.searchedKs, k)
	return s.matches, nil
}

// fakeChat returns canned completions and records the request.
type fakeChat struct {
	completion  groq.Completion
	streamText  string
	lastMsgs    []groq.ChatMessage
	lastTools   []groq.Tool
	lastPrompt  string
	streamCalls int
}

func (c *fakeChat) Complete(ctx context.Context, msgs []groq.ChatMessage, tools []groq.Tool, temperature float64) (groq.Completion, error) {
	c.lastMsgs = msgs
	c.lastTools = tools
	return c.completion, nil
}

func (c *fakeChat) CompleteStream(ctx context.Context, prompt string, temperature float64, onDelta func(delta string)) (string, error) {
	c.streamCalls++
	c.lastPrompt = prompt
	if onDelta != nil {
		onDelta(c.streamText)
	}
	return c.streamText, nil
}

// progressRecorder captures emitted progress percentages in order.
type progressRecorder struct {
	mu       sync.Mutex
	percents []int
	deltas   []string
}

func (r *progressRecorder) IndexProgress(sessionID uuid.UUID, percent int) {
	r.mu.Lock()
	r.percents = append(r.percents, percent)
	r.mu.Unlock()
}

func (r *progressRecorder) ResponseDelta(sessionID uuid.UUID, delta string) {
	r.mu.Lock()
	r.deltas = append(r.deltas, delta)
	r.mu.Unlock()
}

func testDeps(t *testing.T, chat groq.Client, store vector.Store, notify Notifier) Deps {
	t.Helper()
	return Deps{
		Log:  mustTestLogger(t),
		Chat: chat,
		NewIndex: func() (vector.Store, error) {
			return store, nil
		},
		Notify:          notify,
		BatchSize:       10,
		Concurrency:     1,
		InterBatchDelay: 0,
		RetryAttempts:   3,
		RetryBackoff:    1,
	}
}

func notTerminated() bool { return false }
