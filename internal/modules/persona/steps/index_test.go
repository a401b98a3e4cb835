package steps

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/personachat-backend/internal/types"
)

func indexState(n int) State {
	msgs := make([]types.Message, 0, n)
	for i := 0; i < n; i++ {
		msgs = append(msgs, types.NewHumanMessage(fmt.Sprintf("message %d", i)))
	}
	return State{
		SessionID:  uuid.New(),
		Messages:   msgs,
		Terminated: notTerminated,
	}
}

func TestIndexChatsBatchesAndProgress(t *testing.T) {
	store := &fakeStore{}
	rec := &progressRecorder{}
	deps := testDeps(t, &fakeChat{}, store, rec)

	patch, err := IndexChats(context.Background(), deps, indexState(25))
	if err != nil {
		t.Fatalf("IndexChats: %v", err)
	}
	if patch.Index == nil {
		t.Fatalf("expected index in patch")
	}

	if len(store.batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(store.batches))
	}
	sizes := []int{len(store.batches[0]), len(store.batches[1]), len(store.batches[2])}
	total := sizes[0] + sizes[1] + sizes[2]
	if total != 25 {
		t.Fatalf("expected 25 docs indexed, got %d", total)
	}

	want := []int{34, 67, 100}
	if len(rec.percents) != len(want) {
		t.Fatalf("expected %d progress events, got %v", len(want), rec.percents)
	}
	for i, p := range want {
		if rec.percents[i] != p {
			t.Fatalf("progress event %d: got %d, want %d", i, rec.percents[i], p)
		}
	}
}

func TestIndexChatsSkipsWhenIndexExists(t *testing.T) {
	store := &fakeStore{}
	deps := testDeps(t, &fakeChat{}, store, &progressRecorder{})

	st := indexState(5)
	st.Index = &fakeStore{}

	patch, err := IndexChats(context.Background(), deps, st)
	if err != nil {
		t.Fatalf("IndexChats: %v", err)
	}
	if patch.Index != nil {
		t.Fatalf("expected no index in patch when one already exists")
	}
	if len(store.batches) != 0 {
		t.Fatalf("expected no embedding calls, got %d batches", len(store.batches))
	}
}

func TestIndexChatsNoDocuments(t *testing.T) {
	store := &fakeStore{}
	deps := testDeps(t, &fakeChat{}, store, &progressRecorder{})

	patch, err := IndexChats(context.Background(), deps, indexState(0))
	if err != nil {
		t.Fatalf("IndexChats: %v", err)
	}
	if patch.Index != nil {
		t.Fatalf("expected no index for empty conversation")
	}
}

func TestIndexChatsRetriesThenSucceeds(t *testing.T) {
	store := &fakeStore{addErrs: []error{errors.New("rate limited"), nil}}
	rec := &progressRecorder{}
	deps := testDeps(t, &fakeChat{}, store, rec)

	patch, err := IndexChats(context.Background(), deps, indexState(5))
	if err != nil {
		t.Fatalf("IndexChats: %v", err)
	}
	if patch.Index == nil {
		t.Fatalf("expected index after retry")
	}
	if len(store.batches) != 1 {
		t.Fatalf("expected 1 successful batch, got %d", len(store.batches))
	}
	if len(rec.percents) != 1 || rec.percents[0] != 100 {
		t.Fatalf("unexpected progress events: %v", rec.percents)
	}
}

func TestIndexChatsRetryExhaustion(t *testing.T) {
	store := &fakeStore{addErrs: []error{
		errors.New("boom"), errors.New("boom"), errors.New("boom"),
	}}
	deps := testDeps(t, &fakeChat{}, store, &progressRecorder{})

	_, err := IndexChats(context.Background(), deps, indexState(5))
	if err == nil {
		t.Fatalf("expected error after retries exhausted")
	}
	if len(store.batches) != 0 {
		t.Fatalf("expected no successful batches, got %d", len(store.batches))
	}
}

func TestIndexChatsTerminationDuringBackoff(t *testing.T) {
	store := &fakeStore{addErrs: []error{errors.New("rate limited")}}
	deps := testDeps(t, &fakeChat{}, store, &progressRecorder{})
	deps.RetryBackoff = 30 * time.Second

	var terminated atomic.Bool
	st := indexState(5)
	st.Terminated = terminated.Load

	done := make(chan error, 1)
	start := time.Now()
	go func() {
		_, err := IndexChats(context.Background(), deps, st)
		done <- err
	}()

	// Let the first attempt fail into its backoff, then terminate.
	time.Sleep(50 * time.Millisecond)
	terminated.Store(true)

	select {
	case err := <-done:
		if !errors.Is(err, ErrSessionTerminated) {
			t.Fatalf("expected ErrSessionTerminated, got %v", err)
		}
		if elapsed := time.Since(start); elapsed >= deps.RetryBackoff {
			t.Fatalf("backoff not cut short, took %s", elapsed)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("indexing did not abort during backoff")
	}
}

func TestIndexChatsTerminatedSessionAborts(t *testing.T) {
	store := &fakeStore{}
	deps := testDeps(t, &fakeChat{}, store, &progressRecorder{})

	st := indexState(25)
	st.Terminated = func() bool { return true }

	_, err := IndexChats(context.Background(), deps, st)
	if !errors.Is(err, ErrSessionTerminated) {
		t.Fatalf("expected ErrSessionTerminated, got %v", err)
	}
	if len(store.batches) != 0 {
		t.Fatalf("expected no batches for terminated session, got %d", len(store.batches))
	}
}
