package types

type Role string

const (
	RoleHuman Role = "human"
	RoleAgent Role = "agent"
)

// Message is one entry in a session's conversation. The initial transcript
// rows and user turns are RoleHuman; model output is RoleAgent.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func NewHumanMessage(content string) Message {
	return Message{Role: RoleHuman, Content: content}
}

func NewAgentMessage(content string) Message {
	return Message{Role: RoleAgent, Content: content}
}

// ChatRecord is a single parsed transcript line. It only exists between
// parsing and conversion to a Message.
type ChatRecord struct {
	Timestamp string
	Sender    string
	Message   string
}
