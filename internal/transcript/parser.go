package transcript

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/yungbote/personachat-backend/internal/types"
)

// Exported chat lines look like: [12/03/24, 9:41 PM] Anju: see you tomorrow
var lineRe = regexp.MustCompile(`^\[([^\]]+)\]\s+([^:]+):\s+(.*)$`)

var zeroWidthReplacer = strings.NewReplacer(
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\ufeff", "",
)

// ParseLine parses one transcript line into a ChatRecord. Lines that do not
// match the export grammar return (record, false) and are dropped by callers.
func ParseLine(line string) (types.ChatRecord, bool) {
	normalized := zeroWidthReplacer.Replace(norm.NFKC.String(line))
	m := lineRe.FindStringSubmatch(normalized)
	if m == nil {
		return types.ChatRecord{}, false
	}
	return types.ChatRecord{
		Timestamp: strings.TrimSpace(m[1]),
		Sender:    strings.TrimSpace(m[2]),
		Message:   strings.TrimSpace(m[3]),
	}, true
}

// Load parses a raw transcript and keeps only the lines sent by persona.
// Sender matching is exact and case-sensitive. Each surviving record becomes
// a human message formatted as "[timestamp] sender: message".
func Load(text string, persona string) []types.Message {
	if strings.TrimSpace(text) == "" {
		return []types.Message{}
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	messages := make([]types.Message, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, ok := ParseLine(line)
		if !ok {
			continue
		}
		if rec.Sender != persona {
			continue
		}
		messages = append(messages, types.NewHumanMessage(
			fmt.Sprintf("[%s] %s: %s", rec.Timestamp, rec.Sender, rec.Message),
		))
	}
	return messages
}
