package services

import (
	"github.com/google/uuid"

	"github.com/yungbote/personachat-backend/internal/realtime"
)

// HubNotifier forwards pipeline events to a session's broadcast group.
type HubNotifier struct {
	Hub *realtime.Hub
}

func (n *HubNotifier) IndexProgress(sessionID uuid.UUID, percent int) {
	n.Hub.Broadcast(sessionID, realtime.Event{Type: realtime.EventIndexProgress, Percent: percent})
}

func (n *HubNotifier) ResponseDelta(sessionID uuid.UUID, delta string) {
	n.Hub.Broadcast(sessionID, realtime.Event{Type: realtime.EventResponseDelta, Text: delta})
}
