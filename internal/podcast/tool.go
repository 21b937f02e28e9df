package podcast

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/pagelm/study-cli/internal/llm"
	"github.com/pagelm/study-cli/internal/model"
	"github.com/pagelm/study-cli/internal/textkit"
)

// ScriptToolName is the tool identifier the primary podcast plan targets.
const ScriptToolName = "podcast.script"

// ScriptTool is the in-process script-writing agent behind the primary path.
// It calls the model with the supplied prompt and parses the generation as a
// generic JSON object; shape checking belongs to the orchestrator.
type ScriptTool struct {
	gateway llm.Gateway
}

// NewScriptTool wraps a model gateway as the podcast.script plan tool.
func NewScriptTool(gateway llm.Gateway) *ScriptTool {
	return &ScriptTool{gateway: gateway}
}

// Name implements plan.Tool.
func (t *ScriptTool) Name() string { return ScriptToolName }

// Run implements plan.Tool. Input keys: "prompt", "material", "topic".
func (t *ScriptTool) Run(ctx context.Context, input map[string]any) (any, error) {
	prompt, _ := input["prompt"].(string)
	material, _ := input["material"].(string)
	topic, _ := input["topic"].(string)
	if prompt == "" || material == "" {
		return nil, eris.New("podcast.script: missing prompt or material")
	}

	msgs := []model.ConversationMessage{
		{Role: model.RoleSystem, Content: prompt},
		{Role: model.RoleUser, Content: fmt.Sprintf(fallbackUserTurnFormat, topic, material)},
	}
	generation, err := t.gateway.Invoke(ctx, msgs)
	if err != nil {
		return nil, eris.Wrap(err, "podcast.script: model call")
	}

	draft := strings.TrimSpace(textkit.Coerce(generation))
	jsonStr := textkit.FirstJSONObject(draft)
	if jsonStr == "" {
		jsonStr = draft
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return nil, eris.Wrap(err, "podcast.script: parse generation")
	}
	return parsed, nil
}
