// Package llm is the model invocation boundary. Orchestrators hand it a
// message sequence and receive the provider's generation in whatever shape
// the provider produces; textkit.Coerce owns flattening that to text.
package llm

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/pagelm/study-cli/internal/model"
	"github.com/pagelm/study-cli/internal/textkit"
	"github.com/pagelm/study-cli/pkg/anthropic"
)

// Gateway accepts an ordered message sequence and returns a generation.
type Gateway interface {
	Invoke(ctx context.Context, msgs []model.ConversationMessage) (any, error)
}

// Options tune the Anthropic-backed gateway.
type Options struct {
	Model       string
	MaxTokens   int64
	Temperature *float64
}

// anthropicGateway adapts pkg/anthropic to the Gateway interface.
type anthropicGateway struct {
	client anthropic.Client
	opts   Options
}

// NewAnthropic creates a Gateway backed by the Anthropic messages API.
// System-role messages become cached system blocks; everything else is sent
// as the conversation, with structured content flattened to text.
func NewAnthropic(client anthropic.Client, opts Options) Gateway {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4096
	}
	return &anthropicGateway{client: client, opts: opts}
}

func (g *anthropicGateway) Invoke(ctx context.Context, msgs []model.ConversationMessage) (any, error) {
	req := anthropic.MessageRequest{
		Model:       g.opts.Model,
		MaxTokens:   g.opts.MaxTokens,
		Temperature: g.opts.Temperature,
	}

	for _, m := range msgs {
		content := textkit.Coerce(m.Content)
		if m.Role == model.RoleSystem {
			req.System = append(req.System, anthropic.BuildCachedSystemBlocks(content)...)
			continue
		}
		req.Messages = append(req.Messages, anthropic.Message{
			Role:    m.Role,
			Content: content,
		})
	}

	resp, err := g.client.CreateMessage(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "llm: invoke")
	}
	resp.Usage.LogCost(g.opts.Model, "generate")
	return resp, nil
}
