package textkit

import "strings"

// defaultChunkLen bounds a retrieval snippet. Paragraphs pack greedily up to
// this length; a single oversized paragraph is split on rune boundaries.
const defaultChunkLen = 1200

// Chunk splits text into retrieval-sized passages on blank-line boundaries.
// maxLen <= 0 uses the default. Empty input yields no chunks.
func Chunk(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = defaultChunkLen
	}

	var chunks []string
	var current strings.Builder
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if runeLen(para) > maxLen {
			flush()
			for _, piece := range splitRunes(para, maxLen) {
				chunks = append(chunks, piece)
			}
			continue
		}

		if current.Len() > 0 && runeLen(current.String())+runeLen(para)+2 > maxLen {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()

	return chunks
}

func runeLen(s string) int { return len([]rune(s)) }

func splitRunes(s string, n int) []string {
	runes := []rune(s)
	var out []string
	for len(runes) > 0 {
		end := n
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, strings.TrimSpace(string(runes[:end])))
		runes = runes[end:]
	}
	return out
}
