// Package plan provides generic named-tool plan execution: a plan is an
// ordered list of steps, each invoking a registered tool with structured
// input under its own timeout and retry budget. Retrieval and the podcast
// primary path both go through this layer.
package plan

import "time"

// Step invokes one named tool. TimeoutMs and Retries scope the budget to
// this single invocation; the runner owns enforcing both.
type Step struct {
	Tool      string         `json:"tool"`
	Input     map[string]any `json:"input"`
	TimeoutMs int            `json:"timeoutMs"`
	Retries   int            `json:"retries"`
}

// Plan is an ordered tool invocation sequence.
type Plan struct {
	Steps []Step `json:"steps"`
}

// SingleStep builds the common one-step plan.
func SingleStep(tool string, input map[string]any, timeout time.Duration, retries int) Plan {
	return Plan{Steps: []Step{{
		Tool:      tool,
		Input:     input,
		TimeoutMs: int(timeout / time.Millisecond),
		Retries:   retries,
	}}}
}
