package adapter

import (
	"context"
	"encoding/json"

	"github.com/arlenner/agent-hooks-go/hook"
)

// funcAdapter wraps an in-process function registered by the host
// application. Failures here are programming errors; panics are caught
// at the dispatch manager's isolation boundary.
type funcAdapter struct {
	fn hook.Func
}

// NewFunc creates the adapter for an internal-kind handler.
func NewFunc(fn hook.Func) Adapter {
	return &funcAdapter{fn: fn}
}

func (a *funcAdapter) Invoke(ctx context.Context, event hook.Event, data json.RawMessage) (*hook.Verdict, error) {
	return a.fn(ctx, event, data)
}
