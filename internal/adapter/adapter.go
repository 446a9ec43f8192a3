// Package adapter implements the four kind-specific execution strategies
// behind a handler configuration. Every adapter satisfies one contract:
// given an event occurrence it returns a verdict, bounded by the timeout
// the dispatch manager sets on the context.
//
// Adapter errors (a raised invocation, a timeout, unparseable output) are
// returned to the manager's isolation boundary; they never turn into
// denials.
package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arlenner/agent-hooks-go/hook"
)

// Adapter turns an event occurrence into a verdict. A nil verdict with a
// nil error means "no action" and is treated as continue.
type Adapter interface {
	Invoke(ctx context.Context, event hook.Event, data json.RawMessage) (*hook.Verdict, error)
}

// Provider is the opaque "ask a model for a structured verdict"
// capability consumed by model-backed adapters. The response is expected
// to be a JSON object shaped like {action, reason, modified_data}.
type Provider interface {
	Judge(ctx context.Context, prompt string) (json.RawMessage, error)
}

// wireVerdict is the JSON shape produced by external processes and model
// responses.
type wireVerdict struct {
	Action       string          `json:"action"`
	Reason       string          `json:"reason"`
	ModifiedData json.RawMessage `json:"modified_data"`
}

// parseWireVerdict decodes a {action, reason, modified_data} object.
// An absent action means continue; an unknown action is an error.
func parseWireVerdict(out []byte) (*hook.Verdict, error) {
	var wv wireVerdict
	if err := json.Unmarshal(out, &wv); err != nil {
		return nil, fmt.Errorf("malformed verdict output: %w", err)
	}

	action := hook.Action(wv.Action)
	if wv.Action == "" {
		action = hook.ActionContinue
	}
	if !action.Valid() {
		return nil, fmt.Errorf("unknown verdict action %q", wv.Action)
	}

	return &hook.Verdict{
		Action:       action,
		Reason:       wv.Reason,
		ModifiedData: wv.ModifiedData,
	}, nil
}

// stripFences removes a markdown code fence around a model response, so
// responses like ```json {...} ``` still parse.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
