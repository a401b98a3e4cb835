package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/personachat-backend/internal/platform/logger"
)

// Registry is the process-wide session map. Contents are lost on restart.
type Registry struct {
	log *logger.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		log:      log.With("service", "SessionRegistry"),
		sessions: make(map[uuid.UUID]*Session),
	}
}

func (r *Registry) Create(transcriptText, personaName string) *Session {
	s := New(transcriptText, personaName)
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	r.log.Info("Session created", "session_id", s.ID, "persona", personaName, "transcript_len", len(transcriptText))
	return s
}

func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Evict terminates the session and removes it from the registry. Called when
// a session's last connection goes away.
func (r *Registry) Evict(id uuid.UUID) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	if !ok {
		return
	}
	s.Terminate()
	r.log.Info("Session evicted", "session_id", id)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
