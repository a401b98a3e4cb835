package steps

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/personachat-backend/internal/clients/groq"
	"github.com/yungbote/personachat-backend/internal/platform/logger"
	"github.com/yungbote/personachat-backend/internal/types"
	"github.com/yungbote/personachat-backend/internal/vector"
)

// ErrSessionTerminated aborts indexing for a session whose last connection
// went away. It is never retried.
var ErrSessionTerminated = errors.New("session terminated")

// Notifier receives pipeline-side events for a session's broadcast group.
type Notifier interface {
	IndexProgress(sessionID uuid.UUID, percent int)
	ResponseDelta(sessionID uuid.UUID, delta string)
}

// Deps carries the capabilities and tuning knobs shared by the four stages.
type Deps struct {
	Log  *logger.Logger
	Chat groq.Client

	// NewIndex builds an empty similarity index bound to the embedding
	// capability. Called at most once per session.
	NewIndex func() (vector.Store, error)

	Notify Notifier

	BatchSize       int           // documents per embedding batch (default 10)
	Concurrency     int           // in-flight batches per session (default 1)
	InterBatchDelay time.Duration // pause after each batch (default 2s)
	RetryAttempts   int           // attempts per batch (default 7)
	RetryBackoff    time.Duration // first retry delay, doubled per attempt (default 5s)
}

// State is the read-only snapshot a stage receives.
type State struct {
	SessionID      uuid.UUID
	TranscriptText string
	PersonaName    string
	Messages       []types.Message
	CurrentQuery   string
	Index          vector.Store

	// Terminated reports cooperative cancellation; checked at batch
	// boundaries only.
	Terminated func() bool
}

// Patch is a stage's partial state update. The orchestrator appends Messages,
// overwrites CurrentQuery when set, and installs Index when the session has
// none yet.
type Patch struct {
	Messages     []types.Message
	CurrentQuery *string
	Index        vector.Store
}

func stringPtr(s string) *string { return &s }
