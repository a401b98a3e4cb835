package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/personachat-backend/internal/clients/groq"
	"github.com/yungbote/personachat-backend/internal/types"
)

const (
	retrieveToolName  = "retrieve_chat_history"
	decideHistoryMax  = 30
	decideTemperature = 0.4
)

func retrieveTool() groq.Tool {
	return groq.Tool{
		Name:        retrieveToolName,
		Description: "Searches through past chat history to find relevant information",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query to look up in chat history",
				},
			},
			"required": []string{"query"},
		},
	}
}

// QueryOrRespond asks the model whether it can answer directly or needs a
// retrieval pass first. The completion's typed tool-call variant is
// authoritative: when the model requests retrieve_chat_history with a query,
// that query replaces the session's current one and the generate stage
// resolves it against the index.
func QueryOrRespond(ctx context.Context, deps Deps, st State) (Patch, error) {
	log := deps.Log.With("step", "queryOrRespond", "session_id", st.SessionID)

	msgs := make([]groq.ChatMessage, 0, decideHistoryMax+1)
	msgs = append(msgs, groq.ChatMessage{Role: "user", Content: decideInstruction})
	msgs = append(msgs, toChatMessages(tailMessages(st.Messages, decideHistoryMax))...)

	completion, err := deps.Chat.Complete(ctx, msgs, []groq.Tool{retrieveTool()}, decideTemperature)
	if err != nil {
		return Patch{}, fmt.Errorf("decide completion: %w", err)
	}

	patch := Patch{Messages: []types.Message{types.NewAgentMessage(completion.Content)}}
	for _, call := range completion.ToolCalls {
		if call.Name != retrieveToolName {
			log.Warn("Ignoring unknown tool call", "tool", call.Name)
			continue
		}
		query, _ := call.Arguments["query"].(string)
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}
		log.Info("Retrieval tool call requested", "query_len", len(query))
		patch.CurrentQuery = stringPtr(query)
		break
	}

	log.Debug("Agent decision generated", "tool_calls", len(completion.ToolCalls))
	return patch, nil
}
