package steps

import (
	"github.com/yungbote/personachat-backend/internal/clients/groq"
	"github.com/yungbote/personachat-backend/internal/types"
)

func tailMessages(msgs []types.Message, max int) []types.Message {
	if max <= 0 || len(msgs) <= max {
		return msgs
	}
	return msgs[len(msgs)-max:]
}

func toChatMessages(msgs []types.Message) []groq.ChatMessage {
	out := make([]groq.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		role := "user"
		if m.Role == types.RoleAgent {
			role = "assistant"
		}
		out = append(out, groq.ChatMessage{Role: role, Content: m.Content})
	}
	return out
}
