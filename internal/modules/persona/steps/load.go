package steps

import (
	"context"

	"github.com/yungbote/personachat-backend/internal/transcript"
)

// LoadHistory parses the session's transcript into human messages attributed
// to the persona. It is a pass-through once the conversation is non-empty, so
// per-turn invocations never re-parse.
func LoadHistory(ctx context.Context, deps Deps, st State) (Patch, error) {
	log := deps.Log.With("step", "loadHistory", "session_id", st.SessionID)

	if len(st.Messages) > 0 {
		log.Debug("Chat history already loaded, skipping")
		return Patch{}, nil
	}
	if st.TranscriptText == "" {
		log.Debug("No transcript text provided, returning empty history")
		return Patch{}, nil
	}

	messages := transcript.Load(st.TranscriptText, st.PersonaName)
	log.Info("Transcript loaded",
		"transcript_len", len(st.TranscriptText),
		"persona", st.PersonaName,
		"messages", len(messages),
	)
	return Patch{Messages: messages}, nil
}
