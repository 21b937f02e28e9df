package ask

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagelm/study-cli/internal/cache"
	"github.com/pagelm/study-cli/internal/model"
	"github.com/pagelm/study-cli/internal/plan"
	"github.com/pagelm/study-cli/internal/snippet"
)

// stubGateway implements llm.Gateway with a fixed generation.
type stubGateway struct {
	generation any
	err        error
	calls      int
	lastMsgs   []model.ConversationMessage
}

func (g *stubGateway) Invoke(_ context.Context, msgs []model.ConversationMessage) (any, error) {
	g.calls++
	g.lastMsgs = msgs
	return g.generation, g.err
}

// stubSearch implements plan.Tool for rag.search.
type stubSearch struct {
	results []snippet.Snippet
	err     error
	calls   int
}

func (s *stubSearch) Name() string { return snippet.SearchToolName }
func (s *stubSearch) Run(context.Context, map[string]any) (any, error) {
	s.calls++
	return s.results, s.err
}

func newOrchestrator(t *testing.T, search *stubSearch, gateway *stubGateway) *Orchestrator {
	t.Helper()
	runner := plan.NewRunner(search)
	return NewOrchestrator(runner, gateway, cache.New(t.TempDir()))
}

const validGeneration = `{"topic":"Entropy","answer":"# Entropy\n\nDisorder wins.","flashcards":[{"q":"why?","a":"because","tags":["deep"]}]}`

func TestAnswer_FullFlow(t *testing.T) {
	search := &stubSearch{results: []snippet.Snippet{
		{Text: "entropy measures disorder"},
		{Text: "the second law"},
	}}
	gateway := &stubGateway{generation: "preamble " + validGeneration + " trailing"}
	o := newOrchestrator(t, search, gateway)

	got, err := o.Answer(context.Background(), model.AskRequest{Question: "what is entropy?"})
	require.NoError(t, err)
	assert.Equal(t, "Entropy", got.Topic)
	assert.Equal(t, "# Entropy\n\nDisorder wins.", got.Answer)
	require.Len(t, got.Flashcards, 1)
	assert.Equal(t, []string{"deep"}, got.Flashcards[0].Tags)

	// Retrieved context and question are embedded in the final user turn.
	last := gateway.lastMsgs[len(gateway.lastMsgs)-1]
	assert.Equal(t, model.RoleUser, last.Role)
	assert.Contains(t, last.Content.(string), "entropy measures disorder\n\nthe second law")
	assert.Contains(t, last.Content.(string), "what is entropy?")
}

func TestAnswer_CacheIdempotence(t *testing.T) {
	search := &stubSearch{results: []snippet.Snippet{{Text: "context"}}}
	gateway := &stubGateway{generation: validGeneration}
	o := newOrchestrator(t, search, gateway)

	req := model.AskRequest{Question: "what is entropy?", TopK: 3}
	first, err := o.Answer(context.Background(), req)
	require.NoError(t, err)
	second, err := o.Answer(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, gateway.calls, "second call must be a pure cache hit")
	assert.Equal(t, 2, search.calls, "retrieval feeds the cache key, so it runs every time")
}

func TestAnswer_DegradeOnPlainText(t *testing.T) {
	search := &stubSearch{}
	gateway := &stubGateway{generation: "Just a sentence."}
	o := newOrchestrator(t, search, gateway)

	got, err := o.Answer(context.Background(), model.AskRequest{Question: "anything?"})
	require.NoError(t, err)
	assert.Equal(t, "Just a sentence.", got.Answer)
	assert.Empty(t, got.Flashcards)
	assert.Equal(t, "anything?", got.Topic) // guessed topic survives
}

func TestAnswer_RetrievalFailureAbsorbed(t *testing.T) {
	search := &stubSearch{err: errors.New("index down")}
	gateway := &stubGateway{generation: validGeneration}
	o := newOrchestrator(t, search, gateway)

	_, err := o.Answer(context.Background(), model.AskRequest{Question: "q?"})
	require.NoError(t, err)

	last := gateway.lastMsgs[len(gateway.lastMsgs)-1]
	assert.Contains(t, last.Content.(string), "NO_CONTEXT")
}

func TestAnswer_ModelFailureFatal(t *testing.T) {
	search := &stubSearch{}
	gateway := &stubGateway{err: errors.New("api down")}
	o := newOrchestrator(t, search, gateway)

	_, err := o.Answer(context.Background(), model.AskRequest{Question: "q?"})
	require.Error(t, err)
}

func TestAnswer_PartialJSONFieldsDefaulted(t *testing.T) {
	search := &stubSearch{}
	gateway := &stubGateway{generation: `{"answer":42,"flashcards":"not an array"}`}
	o := newOrchestrator(t, search, gateway)

	got, err := o.Answer(context.Background(), model.AskRequest{Question: "what is entropy?"})
	require.NoError(t, err)
	assert.Equal(t, "what is entropy?", got.Topic)
	assert.Equal(t, "", got.Answer)
	assert.Empty(t, got.Flashcards)
}

func TestAnswer_HistoryCarriedIntoPrompt(t *testing.T) {
	search := &stubSearch{}
	gateway := &stubGateway{generation: validGeneration}
	o := newOrchestrator(t, search, gateway)

	req := model.AskRequest{
		Question: "and then?",
		History: []model.ConversationMessage{
			{Role: model.RoleUser, Content: "what is entropy?"},
			{Role: model.RoleAssistant, Content: map[string]any{"answer": "Disorder."}},
		},
	}
	_, err := o.Answer(context.Background(), req)
	require.NoError(t, err)

	// system + 2 history turns + final user turn
	require.Len(t, gateway.lastMsgs, 4)
	assert.Equal(t, model.RoleSystem, gateway.lastMsgs[0].Role)
	assert.Equal(t, "Disorder.", gateway.lastMsgs[2].Content)
}

func TestParsePayload_DegradeKeepsGuessedTopic(t *testing.T) {
	got := parsePayload("null", "Fallback Topic")
	assert.Equal(t, "Fallback Topic", got.Topic)
	assert.Equal(t, "null", got.Answer)
	assert.Empty(t, got.Flashcards)
}
