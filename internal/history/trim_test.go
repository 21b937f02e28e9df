package history

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagelm/study-cli/internal/model"
)

func msg(role, content string) model.ConversationMessage {
	return model.ConversationMessage{Role: role, Content: content}
}

func TestForKey_SingleMessageContributesNothing(t *testing.T) {
	assert.Empty(t, ForKey([]model.ConversationMessage{msg(model.RoleUser, "hi")}))
	assert.Empty(t, ForKey(nil))
}

func TestForKey_LastFourSummarized(t *testing.T) {
	msgs := []model.ConversationMessage{
		msg(model.RoleUser, "one"),
		msg(model.RoleAssistant, "two"),
		msg(model.RoleUser, "three"),
		msg(model.RoleAssistant, "four"),
		msg(model.RoleUser, "five"),
	}
	got := ForKey(msgs)
	assert.Equal(t, []string{
		"assistant:two",
		"user:three",
		"assistant:four",
		"user:five",
	}, got)
}

func TestForKey_ContentTruncatedAt100(t *testing.T) {
	long := strings.Repeat("x", 250)
	got := ForKey([]model.ConversationMessage{
		msg(model.RoleUser, "lead-in"),
		msg(model.RoleAssistant, long),
	})
	require.Len(t, got, 2)
	assert.Equal(t, "assistant:"+strings.Repeat("x", 100), got[1])
}

func TestForKey_StructuredContentBecomesEmpty(t *testing.T) {
	got := ForKey([]model.ConversationMessage{
		msg(model.RoleUser, "lead-in"),
		{Role: model.RoleAssistant, Content: map[string]any{"answer": "a"}},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "assistant:", got[1])
}

func TestForPrompt_FiltersRolesAndWindows(t *testing.T) {
	msgs := []model.ConversationMessage{
		msg(model.RoleUser, "0"),
		msg(model.RoleUser, "1"),
		msg(model.RoleSystem, "internal instruction"),
		msg(model.RoleUser, "2"),
		msg(model.RoleAssistant, "3"),
		msg(model.RoleUser, "4"),
		msg(model.RoleAssistant, "5"),
		msg(model.RoleUser, "6"),
	}
	got := ForPrompt(msgs)
	// Window is the last 6 entries; the system entry inside it is dropped.
	require.Len(t, got, 5)
	assert.Equal(t, "2", got[0].Content)
	assert.Equal(t, "6", got[4].Content)
	for _, m := range got {
		assert.NotEqual(t, model.RoleSystem, m.Role)
	}
}

func TestForPrompt_StructuredContentPrefersAnswer(t *testing.T) {
	msgs := []model.ConversationMessage{
		msg(model.RoleUser, "what is X?"),
		{Role: model.RoleAssistant, Content: map[string]any{
			"topic":  "X",
			"answer": "X is a thing.",
		}},
	}
	got := ForPrompt(msgs)
	require.Len(t, got, 2)
	assert.Equal(t, "X is a thing.", got[1].Content)
}

func TestForPrompt_StructuredContentWithoutAnswerSerialized(t *testing.T) {
	msgs := []model.ConversationMessage{
		msg(model.RoleUser, "lead-in"),
		{Role: model.RoleAssistant, Content: map[string]any{"note": "n"}},
	}
	got := ForPrompt(msgs)
	require.Len(t, got, 2)
	assert.JSONEq(t, `{"note":"n"}`, got[1].Content.(string))
}

func TestForPrompt_SingleMessageReturnsNil(t *testing.T) {
	assert.Nil(t, ForPrompt([]model.ConversationMessage{msg(model.RoleUser, "only")}))
}
