package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/arlenner/agent-hooks-go/hook"
	"github.com/arlenner/agent-hooks-go/internal/fieldpath"
)

// inlineAdapter evaluates an ordered list of declarative rules against
// the payload. The first matching rule decides the verdict; no match
// yields continue.
type inlineAdapter struct {
	name   string
	rules  []hook.InlineRule
	logger *slog.Logger
}

// NewInline creates the adapter for an inline-kind handler.
func NewInline(cfg hook.Config, logger *slog.Logger) Adapter {
	return &inlineAdapter{name: cfg.Name, rules: cfg.Rules, logger: logger}
}

func (a *inlineAdapter) Invoke(_ context.Context, _ hook.Event, data json.RawMessage) (*hook.Verdict, error) {
	for _, rule := range a.rules {
		value, ok := fieldpath.Lookup(data, rule.Field)
		if !ok {
			continue
		}
		if !fieldpath.Match(string(rule.Operator), rule.Value, value) {
			continue
		}

		a.logger.Debug("inline rule matched",
			"handler", a.name, "field", rule.Field,
			"operator", string(rule.Operator), "value", rule.Value)

		switch rule.Action {
		case hook.ActionDeny:
			reason := rule.Reason
			if reason == "" {
				reason = fmt.Sprintf("denied by rule: %s %s %s", rule.Field, rule.Operator, rule.Value)
			}
			return hook.Deny(reason), nil

		case hook.ActionModify:
			if rule.ModifyField == "" || rule.ModifyValue == nil {
				a.logger.Warn("modify rule missing modify_field or modify_value",
					"handler", a.name, "field", rule.Field)
				return hook.Continue(rule.Reason), nil
			}
			modified, err := fieldpath.Set(data, rule.ModifyField, rule.ModifyValue)
			if err != nil {
				return nil, fmt.Errorf("apply modify rule at %q: %w", rule.ModifyField, err)
			}
			reason := rule.Reason
			if reason == "" {
				reason = fmt.Sprintf("modified by rule: %s", rule.Field)
			}
			return hook.Modify(modified, reason), nil

		default: // continue
			return hook.Continue(rule.Reason), nil
		}
	}

	return hook.Continue(""), nil
}
