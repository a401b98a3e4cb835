package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/personachat-backend/internal/modules/persona"
	"github.com/yungbote/personachat-backend/internal/platform/logger"
	"github.com/yungbote/personachat-backend/internal/realtime"
	"github.com/yungbote/personachat-backend/internal/session"
)

const (
	msgSessionNotFound  = "[Error: session not found]"
	msgStillProcessing  = "[Please wait, chats are still processing...]"
	msgProcessingFailed = "[Error: failed to process chats]"
	msgTurnFailed       = "[Error processing your message]"
	msgChatsReady       = "Chats are ready"
)

// GatewayService carries the realtime channel semantics: joining a session
// group, relaying user turns into the pipeline, and pushing results back out.
type GatewayService struct {
	log      *logger.Logger
	registry *session.Registry
	pipeline *persona.Pipeline
	hub      *realtime.Hub
}

func NewGatewayService(log *logger.Logger, registry *session.Registry, pipeline *persona.Pipeline, hub *realtime.Hub) *GatewayService {
	return &GatewayService{
		log:      log.With("service", "GatewayService"),
		registry: registry,
		pipeline: pipeline,
		hub:      hub,
	}
}

// Join binds the connection to the session's broadcast group. A session that
// already finished priming greets the new connection with "ready" right away.
func (s *GatewayService) Join(client *realtime.Client, sessionID uuid.UUID) {
	s.hub.Join(client, sessionID)
	sess, ok := s.registry.Get(sessionID)
	if !ok {
		return
	}
	if !sess.IsProcessing() && !sess.IsFailed() {
		s.hub.SendTo(client, realtime.Event{Type: realtime.EventReady, Text: msgChatsReady})
	}
}

// Message runs one user turn. Unknown, still-priming and failed sessions get
// an informational response to the sender only; the text is dropped, never
// queued. A successful turn is broadcast to the whole session group.
func (s *GatewayService) Message(ctx context.Context, client *realtime.Client, sessionID uuid.UUID, text string) {
	log := s.log.With("session_id", sessionID)

	sess, ok := s.registry.Get(sessionID)
	if !ok {
		log.Warn("Message for unknown session")
		s.hub.SendTo(client, realtime.Event{Type: realtime.EventResponse, Text: msgSessionNotFound})
		return
	}
	if sess.IsProcessing() {
		log.Debug("Message while session is still priming, dropping")
		s.hub.SendTo(client, realtime.Event{Type: realtime.EventResponse, Text: msgStillProcessing})
		return
	}
	if sess.IsFailed() {
		s.hub.SendTo(client, realtime.Event{Type: realtime.EventResponse, Text: msgProcessingFailed})
		return
	}

	// Run off the read loop; the session's run lock keeps turns for one
	// session from interleaving.
	go func() {
		reply, err := s.pipeline.Turn(ctx, sess, text)
		if err != nil {
			log.Error("Turn failed", "error", err.Error())
			s.hub.SendTo(client, realtime.Event{Type: realtime.EventResponse, Text: msgTurnFailed})
			return
		}
		s.hub.Broadcast(sessionID, realtime.Event{Type: realtime.EventResponse, Text: reply})
	}()
}

// Disconnect detaches the connection; sessions whose group becomes empty are
// terminated and evicted.
func (s *GatewayService) Disconnect(client *realtime.Client) {
	s.hub.CloseClient(client)
}
