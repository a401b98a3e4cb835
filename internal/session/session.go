package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/personachat-backend/internal/types"
	"github.com/yungbote/personachat-backend/internal/vector"
)

// Session is the unit of state for one uploaded transcript. The registry owns
// the map entry; conversation, index and current query are mutated only by the
// pipeline while Run holds the run lock, and the lifecycle flags are mutated
// by the gateway and the primer through the locked accessors.
type Session struct {
	ID             uuid.UUID
	TranscriptText string
	PersonaName    string

	// Guarded by mu.
	mu         sync.RWMutex
	processing bool
	terminated bool
	failed     bool

	// Guarded by the run lock.
	runMu        sync.Mutex
	Conversation []types.Message
	Index        vector.Store
	CurrentQuery string
}

func New(transcriptText, personaName string) *Session {
	return &Session{
		ID:             uuid.New(),
		TranscriptText: transcriptText,
		PersonaName:    personaName,
		processing:     true,
		Conversation:   []types.Message{},
	}
}

// Run executes fn while holding the session's run lock. Two pipeline
// invocations for the same session never interleave; invocations for
// different sessions are independent.
func (s *Session) Run(fn func() error) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return fn()
}

func (s *Session) SetProcessing(v bool) {
	s.mu.Lock()
	s.processing = v
	s.mu.Unlock()
}

func (s *Session) IsProcessing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processing
}

// Terminate marks the session for cooperative cancellation. The indexer
// checks it at batch boundaries; in-flight calls are not aborted.
func (s *Session) Terminate() {
	s.mu.Lock()
	s.terminated = true
	s.mu.Unlock()
}

func (s *Session) IsTerminated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.terminated
}

func (s *Session) SetFailed() {
	s.mu.Lock()
	s.failed = true
	s.mu.Unlock()
}

func (s *Session) IsFailed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failed
}
