// Package textkit holds the text-shaping helpers shared by the ask and
// podcast flows: generation coercion, JSON recovery and topic derivation.
package textkit

import (
	"fmt"
	"strings"

	"github.com/pagelm/study-cli/pkg/anthropic"
)

// Coerce produces the best-effort plain-text form of a model generation.
// The recognized variants are probed in a fixed order: plain string, typed
// Anthropic response, a string "content" field, a "content" parts array, the
// text of the first "generations" entry, and finally a generic stringification.
// Coerce never fails; unrecognizable input degrades to "" or fmt.Sprint.
func Coerce(v any) string {
	switch out := v.(type) {
	case nil:
		return ""
	case string:
		return out
	case *anthropic.MessageResponse:
		if out == nil {
			return ""
		}
		var b strings.Builder
		for _, block := range out.Content {
			b.WriteString(block.Text)
		}
		return b.String()
	case map[string]any:
		if s, ok := out["content"].(string); ok {
			return s
		}
		if parts, ok := out["content"].([]any); ok {
			return joinParts(parts)
		}
		if gens, ok := out["generations"].([]any); ok && len(gens) > 0 {
			if first, ok := gens[0].(map[string]any); ok {
				if s, ok := first["text"].(string); ok && s != "" {
					return s
				}
			}
		}
	}
	return fmt.Sprint(v)
}

// joinParts concatenates a content-parts array in order. Parts are either
// plain strings or objects carrying a "text" field; anything else counts as
// empty text.
func joinParts(parts []any) string {
	var b strings.Builder
	for _, p := range parts {
		switch part := p.(type) {
		case string:
			b.WriteString(part)
		case map[string]any:
			if s, ok := part["text"].(string); ok {
				b.WriteString(s)
			}
		}
	}
	return b.String()
}
