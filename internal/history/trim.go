// Package history reduces a conversation transcript to the bounded windows
// the ask flow needs: a short summary window for cache keying and a longer
// role-filtered window for prompt assembly.
package history

import (
	"encoding/json"
	"fmt"

	"github.com/pagelm/study-cli/internal/model"
)

const (
	// keyWindow entries feed the cache-key summary; keeping it short makes
	// the key stable against minor trailing edits to the transcript.
	keyWindow = 4
	// promptWindow entries are carried into the actual model prompt.
	promptWindow = 6
	// keyContentMax caps per-entry content in the cache-key summary.
	keyContentMax = 100
)

// ForKey reduces the transcript to "role:content-prefix" summary lines for
// the cache-key descriptor. Single-message histories contribute nothing: the
// lone entry is the current question, already keyed separately.
func ForKey(msgs []model.ConversationMessage) []string {
	if len(msgs) <= 1 {
		return []string{}
	}
	tail := lastN(msgs, keyWindow)
	out := make([]string, 0, len(tail))
	for _, m := range tail {
		content := ""
		if s, ok := m.Content.(string); ok {
			content = truncate(s, keyContentMax)
		}
		out = append(out, m.Role+":"+content)
	}
	return out
}

// ForPrompt returns the last entries of the transcript filtered to user and
// assistant roles, with structured content flattened to plain text. System
// entries are dropped: the flow supplies its own system instruction.
func ForPrompt(msgs []model.ConversationMessage) []model.ConversationMessage {
	if len(msgs) <= 1 {
		return nil
	}
	tail := lastN(msgs, promptWindow)
	out := make([]model.ConversationMessage, 0, len(tail))
	for _, m := range tail {
		if m.Role != model.RoleUser && m.Role != model.RoleAssistant {
			continue
		}
		out = append(out, model.ConversationMessage{
			Role:    m.Role,
			Content: flatten(m.Content),
		})
	}
	return out
}

// flatten coerces heterogeneous message content to plain text: strings pass
// through, structured payloads prefer their "answer" field, anything else is
// serialized whole.
func flatten(c any) string {
	switch v := c.(type) {
	case string:
		return v
	case map[string]any:
		if answer, ok := v["answer"].(string); ok {
			return answer
		}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Sprint(c)
	}
	return string(b)
}

func lastN(msgs []model.ConversationMessage, n int) []model.ConversationMessage {
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
