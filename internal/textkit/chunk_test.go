package textkit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkEmpty(t *testing.T) {
	assert.Empty(t, Chunk("", 100))
	assert.Empty(t, Chunk("\n\n  \n\n", 100))
}

func TestChunkSingleParagraph(t *testing.T) {
	got := Chunk("a short paragraph", 100)
	assert.Equal(t, []string{"a short paragraph"}, got)
}

func TestChunkPacksParagraphs(t *testing.T) {
	text := "first para\n\nsecond para\n\nthird para"
	got := Chunk(text, 30)
	assert.Equal(t, []string{"first para\n\nsecond para", "third para"}, got)
}

func TestChunkSplitsOversizedParagraph(t *testing.T) {
	long := strings.Repeat("x", 250)
	got := Chunk(long, 100)
	assert.Len(t, got, 3)
	for _, c := range got {
		assert.LessOrEqual(t, len([]rune(c)), 100)
	}
}

func TestChunkDefaultLength(t *testing.T) {
	got := Chunk("hello", 0)
	assert.Equal(t, []string{"hello"}, got)
}
