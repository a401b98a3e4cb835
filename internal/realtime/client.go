package realtime

import (
	"github.com/google/uuid"

	"github.com/yungbote/personachat-backend/internal/platform/logger"
)

// Client is one websocket connection. The gateway handler owns the socket and
// its pumps; the hub only ever touches Outbound.
type Client struct {
	ID       uuid.UUID
	Sessions map[uuid.UUID]bool
	Outbound chan Event
	done     chan struct{}
	Logger   *logger.Logger
}

func (c *Client) Done() <-chan struct{} { return c.done }
