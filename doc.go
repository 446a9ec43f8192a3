// Package dispatch routes agent session events through configured hooks.
//
// Hooks observe or intercept events (tool calls, session lifecycle,
// checkpoints, model switches) and return verdicts: continue, deny, or
// modify with a replacement payload. Four handler kinds are supported:
// registered Go functions, external processes, declarative inline rules,
// and model-backed judgements via the Anthropic API.
//
// # Quick Start
//
//	reg := dispatch.NewRegistry()
//	reg.Register("audit", auditFn)
//	m, err := dispatch.New(configs, dispatch.WithRegistry(reg))
//	if err != nil {
//	    return err
//	}
//	hooks := dispatch.NewToolCallHooks(m, sessionID)
//	result, err := hooks.Wrap(ctx, "bash", args, runBash)
//
// Handlers run in priority order with per-handler timeouts; a handler
// failure is logged and never blocks the event. A deny verdict from a
// PreToolUse hook surfaces as a [DeniedError].
//
// # Sub-packages
//
//   - [hook] provides the public event, verdict, and config types.
package dispatch
