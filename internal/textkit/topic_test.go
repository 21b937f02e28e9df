package textkit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuessTopic_ShortQuestionReturnedVerbatim(t *testing.T) {
	assert.Equal(t, "what is entropy?", GuessTopic("  what   is   entropy?  "))
}

func TestGuessTopic_AboutCapture(t *testing.T) {
	q := "I have been struggling for weeks with this chapter, can you please tell me about quantum tunneling effects in semiconductors? I keep mixing it up."
	got := GuessTopic(q)
	assert.Equal(t, "quantum tunneling effects in semiconductors", got)
}

func TestGuessTopic_PrepositionCapture(t *testing.T) {
	q := "could you maybe walk me through the different historical schools and the big debate in macroeconomics that keeps coming up during lectures every single week"
	got := GuessTopic(q)
	assert.NotEmpty(t, got)
	assert.LessOrEqual(t, len([]rune(got)), 80)
}

func TestGuessTopic_PrefixFallback(t *testing.T) {
	q := strings.Repeat("zzzz ", 40) // no about/on/of/for/in anywhere
	got := GuessTopic(q)
	assert.Equal(t, 79, len(got)) // 80th rune is a trimmed trailing space
}

func TestGuessTopic_Empty(t *testing.T) {
	assert.Equal(t, "", GuessTopic("   "))
}

func TestNormalizeTopic(t *testing.T) {
	assert.Equal(t, "thermo dynamics", NormalizeTopic("  thermo \t\n dynamics "))
	assert.Equal(t, "", NormalizeTopic(""))
	// NFC: decomposed e + combining acute composes to é.
	assert.Equal(t, "café", NormalizeTopic("café"))
}
