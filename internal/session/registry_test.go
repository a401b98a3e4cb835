package session

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/personachat-backend/internal/platform/logger"
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

func TestRegistryCreateAndGet(t *testing.T) {
	r := NewRegistry(mustTestLogger(t))

	s := r.Create("[1/1/24, 1:00 PM] Anju: hi", "Anju")
	if s.ID == uuid.Nil {
		t.Fatalf("expected session id to be assigned")
	}
	if !s.IsProcessing() {
		t.Fatalf("expected new session to start processing")
	}

	got, ok := r.Get(s.ID)
	if !ok {
		t.Fatalf("expected session to be retrievable")
	}
	if got != s {
		t.Fatalf("expected identical session pointer")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", r.Len())
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry(mustTestLogger(t))
	if _, ok := r.Get(uuid.New()); ok {
		t.Fatalf("expected lookup miss for unknown id")
	}
}

func TestRegistryEvictTerminates(t *testing.T) {
	r := NewRegistry(mustTestLogger(t))
	s := r.Create("text", "Anju")

	r.Evict(s.ID)

	if _, ok := r.Get(s.ID); ok {
		t.Fatalf("expected session removed after eviction")
	}
	if !s.IsTerminated() {
		t.Fatalf("expected evicted session to be terminated")
	}
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Len())
	}

	// Evicting twice is harmless.
	r.Evict(s.ID)
}

func TestSessionRunSerializes(t *testing.T) {
	s := New("text", "Anju")

	inside := false
	err := s.Run(func() error {
		inside = true
		if got := s.runMu.TryLock(); got {
			s.runMu.Unlock()
			t.Fatalf("expected run lock to be held inside Run")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !inside {
		t.Fatalf("expected fn to be invoked")
	}
}
