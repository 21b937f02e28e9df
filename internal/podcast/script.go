// Package podcast turns study material into a structured two-host script and
// renders it to audio. Script generation is two-path: a named tool plan
// first, then a direct model call. Unlike the ask flow, a malformed fallback
// generation is fatal — the audio renderer cannot do anything with raw text.
package podcast

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pagelm/study-cli/internal/llm"
	"github.com/pagelm/study-cli/internal/model"
	"github.com/pagelm/study-cli/internal/plan"
	"github.com/pagelm/study-cli/internal/textkit"
)

// Primary tool budget, scoped to the single plan step.
const (
	scriptTimeout = 20 * time.Second
	scriptRetries = 1
)

// scriptAgent names the primary plan execution for logging.
const scriptAgent = "podcaster"

// Orchestrator generates scripts and delegates audio rendering.
type Orchestrator struct {
	runner   *plan.Runner
	gateway  llm.Gateway
	renderer Renderer
}

// NewOrchestrator wires the podcast flow. renderer may be nil when only
// MakeScript is used.
func NewOrchestrator(runner *plan.Runner, gateway llm.Gateway, renderer Renderer) *Orchestrator {
	return &Orchestrator{runner: runner, gateway: gateway, renderer: renderer}
}

// primaryOutcome makes the fall-back decision inspectable: exactly one of
// script or reason is set.
type primaryOutcome struct {
	script *model.PodcastScript
	reason string
}

// MakeScript generates a podcast script from material. The primary tool path
// is tried first; any failure or shape mismatch falls back to a direct model
// call whose output must parse as strict JSON.
func (o *Orchestrator) MakeScript(ctx context.Context, material, topic string) (*model.PodcastScript, error) {
	top := textkit.NormalizeTopic(topic)
	if top == "" {
		top = "general"
	}

	outcome := o.tryPrimary(ctx, material, top)
	if outcome.script != nil {
		return outcome.script, nil
	}
	zap.L().Warn("podcast: primary path fell back",
		zap.String("topic", top),
		zap.String("reason", outcome.reason),
	)

	return o.fallback(ctx, material, top)
}

// tryPrimary executes the named tool plan. The result is accepted verbatim
// when it carries a segments array; segment count and speaker alternation
// are not validated here.
func (o *Orchestrator) tryPrimary(ctx context.Context, material, topic string) primaryOutcome {
	p := plan.SingleStep(ScriptToolName, map[string]any{
		"prompt":   scriptPrompt,
		"material": material,
		"topic":    topic,
	}, scriptTimeout, scriptRetries)

	result, err := o.runner.Execute(ctx, scriptAgent, p)
	if err != nil {
		return primaryOutcome{reason: err.Error()}
	}

	script, ok := decodeScriptResult(result)
	if !ok {
		return primaryOutcome{reason: "tool result carries no segments array"}
	}
	return primaryOutcome{script: script}
}

// decodeScriptResult accepts a typed script or a generic JSON object, but
// only when a segments array is present.
func decodeScriptResult(result any) (*model.PodcastScript, bool) {
	switch r := result.(type) {
	case *model.PodcastScript:
		if r != nil && r.Segments != nil {
			return r, true
		}
	case map[string]any:
		if _, ok := r["segments"].([]any); !ok {
			return nil, false
		}
		data, err := json.Marshal(r)
		if err != nil {
			return nil, false
		}
		var script model.PodcastScript
		if err := json.Unmarshal(data, &script); err != nil {
			return nil, false
		}
		return &script, true
	}
	return nil, false
}

// fallback builds the two-message exchange and calls the model directly.
// A parse failure here propagates — no lenient degrade.
func (o *Orchestrator) fallback(ctx context.Context, material, topic string) (*model.PodcastScript, error) {
	msgs := []model.ConversationMessage{
		{Role: model.RoleSystem, Content: scriptPrompt},
		{Role: model.RoleUser, Content: fmt.Sprintf(fallbackUserTurnFormat, topic, material)},
	}

	generation, err := o.gateway.Invoke(ctx, msgs)
	if err != nil {
		return nil, eris.Wrap(err, "podcast: fallback model call")
	}

	draft := strings.TrimSpace(textkit.Coerce(generation))
	jsonStr := textkit.FirstJSONObject(draft)
	if jsonStr == "" {
		jsonStr = draft
	}

	var script model.PodcastScript
	if err := json.Unmarshal([]byte(jsonStr), &script); err != nil {
		return nil, eris.Wrap(err, "podcast: parse fallback script")
	}
	if script.Segments == nil {
		script.Segments = []model.Segment{}
	}
	return &script, nil
}
