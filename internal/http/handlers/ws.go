package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/yungbote/personachat-backend/internal/platform/logger"
	"github.com/yungbote/personachat-backend/internal/realtime"
	"github.com/yungbote/personachat-backend/internal/services"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = 54 * time.Second
	wsMaxMessageSize = 1 << 20
)

// WSHandler is the realtime gateway endpoint. Each connection gets a hub
// client, a read loop dispatching joinSession/message frames, and a write
// loop draining the client's outbound events.
type WSHandler struct {
	log      *logger.Logger
	gateway  *services.GatewayService
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(log *logger.Logger, gateway *services.GatewayService, hub *realtime.Hub) *WSHandler {
	return &WSHandler{
		log:     log.With("handler", "WSHandler"),
		gateway: gateway,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

type wsFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
}

// GET /ws
func (h *WSHandler) Connect(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", "error", err.Error())
		return
	}

	client := h.hub.NewClient()
	h.log.Debug("Websocket connected", "client_id", client.ID)

	go h.writePump(conn, client)
	h.readPump(c, conn, client)
}

func (h *WSHandler) readPump(c *gin.Context, conn *websocket.Conn, client *realtime.Client) {
	defer func() {
		h.gateway.Disconnect(client)
		_ = conn.Close()
	}()

	conn.SetReadLimit(wsMaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var frame wsFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("Websocket read error", "client_id", client.ID, "error", err.Error())
			}
			return
		}
		h.dispatch(c, client, frame)
	}
}

func (h *WSHandler) dispatch(c *gin.Context, client *realtime.Client, frame wsFrame) {
	sessionID, err := uuid.Parse(strings.TrimSpace(frame.SessionID))
	if err != nil {
		h.hub.SendTo(client, realtime.Event{Type: realtime.EventError, Text: "invalid sessionId"})
		return
	}

	switch frame.Type {
	case "joinSession":
		h.gateway.Join(client, sessionID)
	case "message":
		h.gateway.Message(c.Request.Context(), client, sessionID, frame.Text)
	default:
		h.hub.SendTo(client, realtime.Event{Type: realtime.EventError, Text: "unknown frame type"})
	}
}

func (h *WSHandler) writePump(conn *websocket.Conn, client *realtime.Client) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case evt, ok := <-client.Outbound:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-client.Done():
			return
		}
	}
}
