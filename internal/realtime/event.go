package realtime

// EventType names the server-pushed events on a session channel.
type EventType string

const (
	EventReady         EventType = "ready"
	EventIndexProgress EventType = "indexProgress"
	EventResponse      EventType = "response"
	EventResponseDelta EventType = "responseDelta"
	EventError         EventType = "error"
)

type Event struct {
	Type    EventType `json:"type"`
	Percent int       `json:"percent,omitempty"`
	Text    string    `json:"text,omitempty"`
}
