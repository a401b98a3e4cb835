package persona

import (
	"context"
	"fmt"

	"github.com/yungbote/personachat-backend/internal/modules/persona/steps"
	"github.com/yungbote/personachat-backend/internal/platform/logger"
	"github.com/yungbote/personachat-backend/internal/session"
	"github.com/yungbote/personachat-backend/internal/types"
)

type stage struct {
	name string
	fn   func(context.Context, steps.Deps, steps.State) (steps.Patch, error)
}

// Pipeline is the fixed linear sequence loadHistory -> indexChats ->
// queryOrRespond -> generate. It runs once at priming (no current query, only
// load+index do work) and once per user turn (load+index no-op through their
// idempotence guards).
type Pipeline struct {
	deps   steps.Deps
	log    *logger.Logger
	stages []stage
}

func New(deps steps.Deps) *Pipeline {
	return &Pipeline{
		deps: deps,
		log:  deps.Log.With("service", "PersonaPipeline"),
		stages: []stage{
			{name: "loadHistory", fn: steps.LoadHistory},
			{name: "indexChats", fn: steps.IndexChats},
			{name: "queryOrRespond", fn: steps.QueryOrRespond},
			{name: "generate", fn: steps.Generate},
		},
	}
}

// Prime runs the pipeline for a freshly created session so the transcript is
// parsed and indexed before the first turn.
func (p *Pipeline) Prime(ctx context.Context, sess *session.Session) error {
	return sess.Run(func() error {
		return p.invoke(ctx, sess)
	})
}

// Turn appends the user's message, sets it as the current query, runs the
// pipeline and returns the final agent reply.
func (p *Pipeline) Turn(ctx context.Context, sess *session.Session, text string) (string, error) {
	var reply string
	err := sess.Run(func() error {
		sess.Conversation = append(sess.Conversation, types.NewHumanMessage(text))
		sess.CurrentQuery = text
		if err := p.invoke(ctx, sess); err != nil {
			return err
		}
		if n := len(sess.Conversation); n > 0 {
			last := sess.Conversation[n-1]
			if last.Role == types.RoleAgent {
				reply = last.Content
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}

// invoke runs the stages in order, merging each stage's patch into the
// session. Callers hold the session's run lock.
func (p *Pipeline) invoke(ctx context.Context, sess *session.Session) error {
	for _, st := range p.stages {
		snapshot := steps.State{
			SessionID:      sess.ID,
			TranscriptText: sess.TranscriptText,
			PersonaName:    sess.PersonaName,
			Messages:       sess.Conversation,
			CurrentQuery:   sess.CurrentQuery,
			Index:          sess.Index,
			Terminated:     sess.IsTerminated,
		}
		patch, err := st.fn(ctx, p.deps, snapshot)
		if err != nil {
			return fmt.Errorf("stage %s: %w", st.name, err)
		}
		p.merge(sess, patch)
	}
	return nil
}

// merge applies a stage patch: list fields append, scalar fields overwrite,
// and the similarity index is installed at most once per session.
func (p *Pipeline) merge(sess *session.Session, patch steps.Patch) {
	if len(patch.Messages) > 0 {
		sess.Conversation = append(sess.Conversation, patch.Messages...)
	}
	if patch.CurrentQuery != nil {
		sess.CurrentQuery = *patch.CurrentQuery
	}
	if patch.Index != nil && sess.Index == nil {
		sess.Index = patch.Index
	}
}
