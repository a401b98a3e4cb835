package steps

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/personachat-backend/internal/types"
)

func TestGenerateSkipsWithoutQuery(t *testing.T) {
	chat := &fakeChat{}
	store := &fakeStore{}
	deps := testDeps(t, chat, store, &progressRecorder{})

	st := State{SessionID: uuid.New(), Index: store, Terminated: notTerminated}

	patch, err := Generate(context.Background(), deps, st)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(patch.Messages) != 0 {
		t.Fatalf("expected no new messages, got %d", len(patch.Messages))
	}
	if patch.CurrentQuery == nil || *patch.CurrentQuery != "" {
		t.Fatalf("expected query to be cleared")
	}
	if chat.streamCalls != 0 {
		t.Fatalf("expected no completion calls, got %d", chat.streamCalls)
	}
	if len(store.searches) != 0 {
		t.Fatalf("expected no retrieval, got %d searches", len(store.searches))
	}
}

func TestGenerateRetrievesAndAnswers(t *testing.T) {
	chat := &fakeChat{streamText: "Sounds good, see you then!"}
	store := &fakeStore{matches: []string{
		"[1/1/24, 1:00 PM] Anju: let's meet Saturday",
		"[1/1/24, 1:05 PM] Anju: the usual place",
	}}
	rec := &progressRecorder{}
	deps := testDeps(t, chat, store, rec)

	st := State{
		SessionID:    uuid.New(),
		PersonaName:  "Anju",
		CurrentQuery: "weekend plans",
		Index:        store,
		Terminated:   notTerminated,
	}

	patch, err := Generate(context.Background(), deps, st)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(patch.Messages) != 1 || patch.Messages[0].Role != types.RoleAgent {
		t.Fatalf("expected 1 agent message, got %+v", patch.Messages)
	}
	if patch.Messages[0].Content != "Sounds good, see you then!" {
		t.Fatalf("content: got %q", patch.Messages[0].Content)
	}
	if patch.CurrentQuery == nil || *patch.CurrentQuery != "" {
		t.Fatalf("expected query cleared after generation")
	}

	if len(store.searches) != 1 || store.searches[0] != "weekend plans" {
		t.Fatalf("unexpected searches: %v", store.searches)
	}
	if store.searchedKs[0] != 30 {
		t.Fatalf("expected k=30, got %d", store.searchedKs[0])
	}

	if !strings.Contains(chat.lastPrompt, "Anju") {
		t.Fatalf("prompt missing persona name: %q", chat.lastPrompt)
	}
	if !strings.Contains(chat.lastPrompt, "let's meet Saturday") {
		t.Fatalf("prompt missing retrieved context: %q", chat.lastPrompt)
	}

	if len(rec.deltas) != 1 || rec.deltas[0] != "Sounds good, see you then!" {
		t.Fatalf("unexpected streamed deltas: %v", rec.deltas)
	}
}

func TestGenerateStripsThinkBlocks(t *testing.T) {
	chat := &fakeChat{streamText: "<think>\nreasoning about the\nanswer\n</think>Hi there!<THINK>more</THINK> Bye."}
	store := &fakeStore{}
	deps := testDeps(t, chat, store, &progressRecorder{})

	st := State{
		SessionID:    uuid.New(),
		PersonaName:  "Anju",
		CurrentQuery: "say hi",
		Index:        store,
		Terminated:   notTerminated,
	}

	patch, err := Generate(context.Background(), deps, st)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := patch.Messages[0].Content; got != "Hi there! Bye." {
		t.Fatalf("think blocks not stripped: %q", got)
	}
}

func TestGenerateWithoutIndex(t *testing.T) {
	chat := &fakeChat{streamText: "best effort"}
	deps := testDeps(t, chat, &fakeStore{}, &progressRecorder{})

	st := State{
		SessionID:    uuid.New(),
		PersonaName:  "Anju",
		CurrentQuery: "anything",
		Terminated:   notTerminated,
	}

	patch, err := Generate(context.Background(), deps, st)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(patch.Messages) != 1 || patch.Messages[0].Content != "best effort" {
		t.Fatalf("expected answer without context, got %+v", patch.Messages)
	}
}
