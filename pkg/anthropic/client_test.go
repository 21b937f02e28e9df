package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCachedSystemBlocks(t *testing.T) {
	text := "You are a study tutor. Here is the course material:\n\n# Thermodynamics\n..."

	blocks := BuildCachedSystemBlocks(text)

	require.Len(t, blocks, 1)
	assert.Equal(t, text, blocks[0].Text)
	require.NotNil(t, blocks[0].CacheControl)
	assert.Equal(t, "1h", blocks[0].CacheControl.TTL)
}

func TestBuildCachedSystemBlocks_EmptyText(t *testing.T) {
	blocks := BuildCachedSystemBlocks("")

	require.Len(t, blocks, 1)
	assert.Equal(t, "", blocks[0].Text)
	require.NotNil(t, blocks[0].CacheControl)
}

func TestEstimateCost(t *testing.T) {
	usage := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}

	assert.InDelta(t, 4.80, usage.EstimateCost("claude-haiku-4-5-20251001"), 0.001)
	assert.InDelta(t, 18.00, usage.EstimateCost("claude-sonnet-4-5-20250929"), 0.001)
}

func TestEstimateCost_UnknownModel(t *testing.T) {
	usage := TokenUsage{InputTokens: 1000, OutputTokens: 1000}
	assert.Zero(t, usage.EstimateCost("some-future-model"))
}

func TestEstimateCost_CacheTokens(t *testing.T) {
	usage := TokenUsage{CacheCreationInputTokens: 1_000_000}
	// cache writes bill at 1.25x the input rate
	assert.InDelta(t, 1.00, usage.EstimateCost("claude-haiku-4-5-20251001"), 0.001)

	usage = TokenUsage{CacheReadInputTokens: 1_000_000}
	// cache reads bill at 0.1x the input rate
	assert.InDelta(t, 0.08, usage.EstimateCost("claude-haiku-4-5-20251001"), 0.001)
}
