package textkit

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// maxTopicLen is the longest topic label returned by GuessTopic.
const maxTopicLen = 80

var (
	aboutPattern = regexp.MustCompile(`(?i)\babout\s+([^?.!]{3,80})`)
	prepPattern  = regexp.MustCompile(`(?i)\b(on|of|for|in)\s+([^?.!]{3,80})`)
)

// GuessTopic derives a short topic label from a free-form question. Short
// questions are returned whole; long ones are mined for the phrase following
// "about" (or a standalone on/of/for/in), falling back to a plain prefix.
// This is a heuristic, not a summarizer — incidental prepositions can and do
// produce odd labels.
func GuessTopic(q string) string {
	t := collapseSpace(strings.TrimSpace(q))
	if len([]rune(t)) <= maxTopicLen {
		return t
	}
	if m := aboutPattern.FindStringSubmatch(t); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := prepPattern.FindStringSubmatch(t); m != nil {
		return strings.TrimSpace(m[2])
	}
	runes := []rune(t)
	return strings.TrimSpace(string(runes[:maxTopicLen]))
}

// NormalizeTopic canonicalizes free text for use as a query or topic label:
// NFC normalization, trimmed edges, internal whitespace collapsed to single
// spaces. Pure function; two semantically identical inputs normalize to the
// same string, which the cache key derivation relies on.
func NormalizeTopic(s string) string {
	return collapseSpace(strings.TrimSpace(norm.NFC.String(s)))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
