package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/personachat-backend/internal/platform/logger"
)

// Hub fans server events out to the connections bound to each session. When a
// session's last connection leaves, the hub reports the empty group through
// onEmpty so the session can be evicted.
type Hub struct {
	log     *logger.Logger
	onEmpty func(sessionID uuid.UUID)

	mu     sync.RWMutex
	groups map[uuid.UUID]map[*Client]bool
}

func NewHub(log *logger.Logger, onEmpty func(sessionID uuid.UUID)) *Hub {
	return &Hub{
		log:     log.With("service", "RealtimeHub"),
		onEmpty: onEmpty,
		groups:  make(map[uuid.UUID]map[*Client]bool),
	}
}

func (h *Hub) NewClient() *Client {
	id := uuid.New()
	return &Client{
		ID:       id,
		Sessions: make(map[uuid.UUID]bool),
		Outbound: make(chan Event, 16),
		done:     make(chan struct{}),
		Logger:   h.log.With("client_id", id.String()),
	}
}

// Join binds the client to a session's broadcast group.
func (h *Hub) Join(client *Client, sessionID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.Sessions[sessionID] = true
	group, ok := h.groups[sessionID]
	if !ok {
		group = make(map[*Client]bool)
		h.groups[sessionID] = group
	}
	group[client] = true
	h.log.Debug("Client joined session group", "client_id", client.ID, "session_id", sessionID)
}

// Broadcast delivers an event to every client in the session's group. Clients
// whose outbound buffer is full miss the event rather than stall the hub.
func (h *Hub) Broadcast(sessionID uuid.UUID, evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	group, ok := h.groups[sessionID]
	if !ok {
		return
	}
	for c := range group {
		select {
		case c.Outbound <- evt:
		default:
			h.log.Warn("Dropping event; outbound buffer full", "client_id", c.ID, "event", string(evt.Type))
		}
	}
}

// SendTo delivers an event to a single client only. Events for a client that
// already disconnected are dropped; callers may hold the reference across a
// slow turn and send after CloseClient ran.
func (h *Hub) SendTo(client *Client, evt Event) {
	select {
	case <-client.done:
		h.log.Debug("Dropping event; client disconnected", "client_id", client.ID, "event", string(evt.Type))
		return
	default:
	}
	select {
	case client.Outbound <- evt:
	default:
		h.log.Warn("Dropping event; outbound buffer full", "client_id", client.ID, "event", string(evt.Type))
	}
}

// CloseClient detaches the client from all session groups and closes its done
// channel. Outbound stays open so late senders holding the client reference
// never hit a closed channel; the write pump exits on done instead. Groups
// emptied by the departure are reported through onEmpty.
func (h *Hub) CloseClient(client *Client) {
	var emptied []uuid.UUID

	h.mu.Lock()
	for sessionID := range client.Sessions {
		group, ok := h.groups[sessionID]
		if !ok {
			continue
		}
		delete(group, client)
		if len(group) == 0 {
			delete(h.groups, sessionID)
			emptied = append(emptied, sessionID)
		}
	}
	client.Sessions = make(map[uuid.UUID]bool)
	h.mu.Unlock()

	close(client.done)
	h.log.Debug("Client disconnected", "client_id", client.ID, "emptied_groups", len(emptied))

	if h.onEmpty != nil {
		for _, sessionID := range emptied {
			h.onEmpty(sessionID)
		}
	}
}

// GroupSize reports how many clients are bound to a session.
func (h *Hub) GroupSize(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[sessionID])
}
