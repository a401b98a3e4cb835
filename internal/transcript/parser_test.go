package transcript

import (
	"strings"
	"testing"

	"github.com/yungbote/personachat-backend/internal/types"
)

func TestParseLineGrammar(t *testing.T) {
	rec, ok := ParseLine("[12/03/24, 9:41 PM] Anju: see you tomorrow")
	if !ok {
		t.Fatalf("expected line to parse")
	}
	if rec.Timestamp != "12/03/24, 9:41 PM" {
		t.Fatalf("timestamp: got %q", rec.Timestamp)
	}
	if rec.Sender != "Anju" {
		t.Fatalf("sender: got %q", rec.Sender)
	}
	if rec.Message != "see you tomorrow" {
		t.Fatalf("message: got %q", rec.Message)
	}
}

func TestParseLineKeepsColonsInMessage(t *testing.T) {
	rec, ok := ParseLine("[1/1/24, 1:00 PM] Me: note: bring the charger")
	if !ok {
		t.Fatalf("expected line to parse")
	}
	if rec.Sender != "Me" {
		t.Fatalf("sender: got %q", rec.Sender)
	}
	if rec.Message != "note: bring the charger" {
		t.Fatalf("message: got %q", rec.Message)
	}
}

func TestParseLineMalformed(t *testing.T) {
	malformed := []string{
		"no brackets at all",
		"[only a timestamp]",
		"[ts] missing colon after sender",
		"",
		"   ",
	}
	for _, line := range malformed {
		if _, ok := ParseLine(line); ok {
			t.Fatalf("expected %q to be rejected", line)
		}
	}
}

func TestParseLineStripsZeroWidthRunes(t *testing.T) {
	rec, ok := ParseLine("\uFEFF[1/1/24, 1:00 PM] Anju: hi")
	if !ok {
		t.Fatalf("expected BOM-prefixed line to parse")
	}
	if rec.Sender != "Anju" {
		t.Fatalf("sender: got %q", rec.Sender)
	}
}

func TestLoadFiltersByPersona(t *testing.T) {
	text := strings.Join([]string{
		"[1/1/24, 1:00 PM] Anju: first",
		"[1/1/24, 1:01 PM] Me: not yours",
		"",
		"[1/1/24, 1:02 PM] Anju: second",
		"garbage line",
		"[1/1/24, 1:03 PM] Me: also not yours",
		"[1/1/24, 1:04 PM] Anju: third",
	}, "\n")

	msgs := Load(text, "Anju")
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	for i, m := range msgs {
		if m.Role != types.RoleHuman {
			t.Fatalf("message %d: role %q", i, m.Role)
		}
	}
	if msgs[0].Content != "[1/1/24, 1:00 PM] Anju: first" {
		t.Fatalf("unexpected content: %q", msgs[0].Content)
	}
}

func TestLoadPersonaMatchIsCaseSensitive(t *testing.T) {
	text := "[1/1/24, 1:00 PM] anju: lowercase sender"
	if msgs := Load(text, "Anju"); len(msgs) != 0 {
		t.Fatalf("expected case-sensitive match to exclude record, got %d", len(msgs))
	}
}

func TestLoadEmptyTranscript(t *testing.T) {
	msgs := Load("", "Anju")
	if msgs == nil {
		t.Fatalf("expected non-nil empty slice")
	}
	if len(msgs) != 0 {
		t.Fatalf("expected empty conversation, got %d", len(msgs))
	}
}

func TestLoadHandlesCRLF(t *testing.T) {
	text := "[1/1/24, 1:00 PM] Anju: one\r\n[1/1/24, 1:01 PM] Anju: two\r\n"
	msgs := Load(text, "Anju")
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
}
