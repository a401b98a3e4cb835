package steps

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/yungbote/personachat-backend/internal/types"
)

const (
	generateRetrieveK   = 30
	generateTemperature = 0.2
)

// Models that expose chain-of-thought wrap it in <think> tags; users never
// see it.
var thinkRe = regexp.MustCompile(`(?is)<think>.*?</think>`)

func stripThink(s string) string {
	return thinkRe.ReplaceAllString(s, "")
}

// Generate answers the session's current query in the persona's voice, using
// the top similarity matches as context. An empty query is the idle path: no
// retrieval, no new message.
func Generate(ctx context.Context, deps Deps, st State) (Patch, error) {
	log := deps.Log.With("step", "generate", "session_id", st.SessionID)

	question := strings.TrimSpace(st.CurrentQuery)
	if question == "" {
		log.Debug("No current query, skipping generation")
		return Patch{CurrentQuery: stringPtr("")}, nil
	}

	var contextText string
	if st.Index != nil {
		matches, err := st.Index.SimilaritySearch(ctx, question, generateRetrieveK)
		if err != nil {
			return Patch{}, fmt.Errorf("retrieve context: %w", err)
		}
		contextText = strings.Join(matches, "\n")
		log.Debug("Context retrieved", "matches", len(matches))
	} else {
		log.Warn("No similarity index on session, generating without context")
	}

	prompt := personaPrompt(st.PersonaName, contextText, question)

	answer, err := deps.Chat.CompleteStream(ctx, prompt, generateTemperature, func(delta string) {
		if deps.Notify != nil {
			deps.Notify.ResponseDelta(st.SessionID, delta)
		}
	})
	if err != nil {
		return Patch{}, fmt.Errorf("generate completion: %w", err)
	}

	cleaned := stripThink(answer)
	log.Info("Final answer generated", "answer_len", len(cleaned))
	return Patch{
		Messages:     []types.Message{types.NewAgentMessage(cleaned)},
		CurrentQuery: stringPtr(""),
	}, nil
}
