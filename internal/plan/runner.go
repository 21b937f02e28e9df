package plan

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pagelm/study-cli/internal/resilience"
)

// defaultStepTimeout applies when a step omits TimeoutMs.
const defaultStepTimeout = 30 * time.Second

// Tool is a named capability invokable from a plan step.
type Tool interface {
	Name() string
	Run(ctx context.Context, input map[string]any) (any, error)
}

// Runner executes plans against a registry of tools. Runners are safe for
// concurrent use once Register calls are done.
type Runner struct {
	tools map[string]Tool
}

// NewRunner creates a Runner with the given tools registered.
func NewRunner(tools ...Tool) *Runner {
	r := &Runner{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register adds a tool to the registry, replacing any tool of the same name.
func (r *Runner) Register(t Tool) {
	r.tools[t.Name()] = t
}

// Execute runs each step of the plan in order and returns the result of the
// last step. Each step runs under its own timeout with its own retry budget;
// any failure rejected by the budget aborts the plan. The agent name is
// carried for logging only.
func (r *Runner) Execute(ctx context.Context, agent string, p Plan) (any, error) {
	var last any
	for _, step := range p.Steps {
		tool, ok := r.tools[step.Tool]
		if !ok {
			return nil, eris.Errorf("plan: unknown tool %q", step.Tool)
		}

		timeout := defaultStepTimeout
		if step.TimeoutMs > 0 {
			timeout = time.Duration(step.TimeoutMs) * time.Millisecond
		}

		cfg := resilience.RetryConfig{
			MaxAttempts: step.Retries + 1,
			ShouldRetry: resilience.RetryAllButFatal,
			OnRetry:     resilience.RetryLogger(agent, step.Tool),
		}

		started := time.Now()
		result, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (any, error) {
			stepCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return tool.Run(stepCtx, step.Input)
		})
		if err != nil {
			return nil, eris.Wrapf(err, "plan: step %s", step.Tool)
		}

		zap.L().Debug("plan step complete",
			zap.String("agent", agent),
			zap.String("tool", step.Tool),
			zap.Duration("elapsed", time.Since(started)),
		)
		last = result
	}
	return last, nil
}
