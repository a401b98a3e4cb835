package services

import (
	"context"

	"github.com/yungbote/personachat-backend/internal/modules/persona"
	"github.com/yungbote/personachat-backend/internal/platform/logger"
	"github.com/yungbote/personachat-backend/internal/realtime"
	"github.com/yungbote/personachat-backend/internal/session"
)

// PrimerService supervises the one-time load+index run for a new session.
// Completion and failure are both observed: on success the session leaves the
// processing state and its group hears "ready"; on failure the session is
// marked failed and its group hears an error instead of waiting forever.
type PrimerService struct {
	log      *logger.Logger
	pipeline *persona.Pipeline
	hub      *realtime.Hub
}

func NewPrimerService(log *logger.Logger, pipeline *persona.Pipeline, hub *realtime.Hub) *PrimerService {
	return &PrimerService{
		log:      log.With("service", "PrimerService"),
		pipeline: pipeline,
		hub:      hub,
	}
}

// Prime schedules priming in the background and returns immediately.
func (s *PrimerService) Prime(ctx context.Context, sess *session.Session) {
	go func() {
		log := s.log.With("session_id", sess.ID)
		log.Info("Priming session")

		if err := s.pipeline.Prime(ctx, sess); err != nil {
			sess.SetFailed()
			sess.SetProcessing(false)
			log.Error("Priming failed", "error", err.Error())
			s.hub.Broadcast(sess.ID, realtime.Event{
				Type: realtime.EventError,
				Text: msgProcessingFailed,
			})
			return
		}

		sess.SetProcessing(false)
		log.Info("Priming complete", "messages", len(sess.Conversation))
		s.hub.Broadcast(sess.ID, realtime.Event{Type: realtime.EventReady, Text: msgChatsReady})
	}()
}
