package snippet

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// SearchToolName is the tool identifier the ask flow's retrieval plan targets.
const SearchToolName = "rag.search"

// SearchTool exposes the snippet store as a plan tool. Input keys: "q"
// (query), "ns" (namespace), "k" (result budget).
type SearchTool struct {
	store Store
}

// NewSearchTool wraps a Store for plan execution.
func NewSearchTool(store Store) *SearchTool {
	return &SearchTool{store: store}
}

// Name implements plan.Tool.
func (t *SearchTool) Name() string { return SearchToolName }

// Run implements plan.Tool. The result is the ranked snippet slice.
func (t *SearchTool) Run(ctx context.Context, input map[string]any) (any, error) {
	query, _ := input["q"].(string)
	if query == "" {
		return nil, eris.New("rag.search: missing query")
	}
	namespace, _ := input["ns"].(string)
	k := intInput(input["k"])

	results, err := t.store.Search(ctx, query, namespace, k)
	if err != nil {
		return nil, eris.Wrap(err, "rag.search")
	}
	zap.L().Debug("retrieval complete",
		zap.String("namespace", namespace),
		zap.Int("k", k),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// intInput reads an integer from plan input, which arrives as int when built
// in-process and float64 when decoded from JSON.
func intInput(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
