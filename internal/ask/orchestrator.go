// Package ask composes retrieval, history trimming, caching and the model
// call into the end-to-end study-answer flow. The flow never fails on
// malformed model output: worst case, the raw generation becomes the answer.
package ask

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pagelm/study-cli/internal/cache"
	"github.com/pagelm/study-cli/internal/history"
	"github.com/pagelm/study-cli/internal/llm"
	"github.com/pagelm/study-cli/internal/model"
	"github.com/pagelm/study-cli/internal/plan"
	"github.com/pagelm/study-cli/internal/snippet"
	"github.com/pagelm/study-cli/internal/textkit"
)

// Retrieval budget: scoped to the single search invocation, enforced by the
// plan runner, not by this orchestrator.
const (
	retrievalTimeout = 8 * time.Second
	retrievalRetries = 1
)

// retrievalAgent names the plan execution for logging.
const retrievalAgent = "researcher"

// cacheDescriptor is the order-stable structure hashed into the cache key.
// Field order matters: it fixes the canonical serialization.
type cacheDescriptor struct {
	Kind     string   `json:"t"`
	Question string   `json:"q"`
	Context  string   `json:"ctx"`
	Topic    string   `json:"topic"`
	History  []string `json:"hist"`
}

// Orchestrator is stateless between invocations; the cache store is the only
// shared resource and calls may run concurrently across requests.
type Orchestrator struct {
	runner  *plan.Runner
	gateway llm.Gateway
	cache   *cache.Store
}

// NewOrchestrator wires the ask flow.
func NewOrchestrator(runner *plan.Runner, gateway llm.Gateway, store *cache.Store) *Orchestrator {
	return &Orchestrator{runner: runner, gateway: gateway, cache: store}
}

// Answer runs the full ask flow for req and returns the structured payload.
// Side effects: one retrieval call, one model call (skipped on cache hit),
// one cache read, at most one cache write.
func (o *Orchestrator) Answer(ctx context.Context, req model.AskRequest) (*model.AskPayload, error) {
	question := textkit.NormalizeTopic(req.Question)
	namespace := req.Namespace
	if strings.TrimSpace(namespace) == "" {
		namespace = model.DefaultNamespace
	}
	topK := req.TopK
	if topK <= 0 {
		topK = model.DefaultTopK
	}

	contextText := o.retrieve(ctx, question, namespace, topK)

	topic := textkit.GuessTopic(question)
	if topic == "" {
		topic = "General"
	}

	descriptor := cacheDescriptor{
		Kind:     "ans",
		Question: question,
		Context:  contextText,
		Topic:    topic,
		History:  history.ForKey(req.History),
	}

	var cached model.AskPayload
	hit, err := o.cache.Get(descriptor, &cached)
	if err != nil {
		return nil, err
	}
	if hit {
		zap.L().Debug("ask: cache hit", zap.String("topic", topic))
		return &cached, nil
	}

	msgs := make([]model.ConversationMessage, 0, 2+len(req.History))
	msgs = append(msgs, model.ConversationMessage{Role: model.RoleSystem, Content: systemPrompt})
	msgs = append(msgs, history.ForPrompt(req.History)...)
	msgs = append(msgs, model.ConversationMessage{
		Role:    model.RoleUser,
		Content: userTurn(contextText, question, topic),
	})

	generation, err := o.gateway.Invoke(ctx, msgs)
	if err != nil {
		return nil, eris.Wrap(err, "ask: model call")
	}

	draft := strings.TrimSpace(textkit.Coerce(generation))
	payload := parsePayload(draft, topic)

	if err := o.cache.Put(descriptor, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// retrieve executes the single-step search plan. Failures are absorbed: the
// flow proceeds with empty context rather than aborting.
func (o *Orchestrator) retrieve(ctx context.Context, question, namespace string, topK int) string {
	p := plan.SingleStep(snippet.SearchToolName, map[string]any{
		"q":  question,
		"ns": namespace,
		"k":  topK,
	}, retrievalTimeout, retrievalRetries)

	result, err := o.runner.Execute(ctx, retrievalAgent, p)
	if err != nil {
		zap.L().Warn("ask: retrieval failed, continuing without context",
			zap.String("namespace", namespace),
			zap.Error(err),
		)
		return noContextSentinel
	}

	snippets, _ := result.([]snippet.Snippet)
	texts := make([]string, 0, len(snippets))
	for _, s := range snippets {
		if s.Text != "" {
			texts = append(texts, s.Text)
		}
	}
	if len(texts) == 0 {
		return noContextSentinel
	}
	return strings.Join(texts, "\n\n")
}

func userTurn(contextText, question, topic string) string {
	return fmt.Sprintf(userTurnFormat, contextText, question, topic)
}

// parsePayload recovers the structured payload from the model draft. The
// first balanced JSON object is preferred; the raw draft is the fallback
// parse input. A failed parse degrades to the draft as the answer.
func parsePayload(draft, topic string) *model.AskPayload {
	jsonStr := textkit.FirstJSONObject(draft)
	if jsonStr == "" {
		jsonStr = draft
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil || raw == nil {
		zap.L().Warn("ask: generation was not parseable JSON, degrading to raw text")
		return &model.AskPayload{Topic: topic, Answer: draft, Flashcards: []model.Flashcard{}}
	}

	out := &model.AskPayload{Topic: topic, Answer: "", Flashcards: []model.Flashcard{}}
	if s, ok := raw["topic"].(string); ok {
		out.Topic = s
	}
	if s, ok := raw["answer"].(string); ok {
		out.Answer = s
	}
	if cards, ok := raw["flashcards"].([]any); ok {
		out.Flashcards = parseFlashcards(cards)
	}
	return out
}

func parseFlashcards(cards []any) []model.Flashcard {
	out := make([]model.Flashcard, 0, len(cards))
	for _, c := range cards {
		card, ok := c.(map[string]any)
		if !ok {
			continue
		}
		fc := model.Flashcard{}
		fc.Question, _ = card["q"].(string)
		fc.Answer, _ = card["a"].(string)
		if tags, ok := card["tags"].([]any); ok {
			for _, tag := range tags {
				if s, ok := tag.(string); ok {
					fc.Tags = append(fc.Tags, s)
				}
			}
		}
		out = append(out, fc)
	}
	return out
}
