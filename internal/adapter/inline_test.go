package adapter_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlenner/agent-hooks-go/hook"
	"github.com/arlenner/agent-hooks-go/internal/adapter"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func inlineConfig(rules ...hook.InlineRule) hook.Config {
	return hook.Config{Name: "inline-test", Kind: hook.KindInline, Rules: rules}
}

func TestInlineNoMatchContinues(t *testing.T) {
	a := adapter.NewInline(inlineConfig(
		hook.InlineRule{Field: "args.command", Operator: hook.OpContains, Value: "rm", Action: hook.ActionDeny},
	), testLogger())

	v, err := a.Invoke(context.Background(), hook.PreToolUse, json.RawMessage(`{"args":{"command":"ls"}}`))
	require.NoError(t, err)
	assert.Equal(t, hook.ActionContinue, v.Action)
}

func TestInlineDeny(t *testing.T) {
	a := adapter.NewInline(inlineConfig(
		hook.InlineRule{Field: "args.command", Operator: hook.OpContains, Value: "rm -rf", Action: hook.ActionDeny, Reason: "destructive"},
	), testLogger())

	v, err := a.Invoke(context.Background(), hook.PreToolUse, json.RawMessage(`{"args":{"command":"rm -rf /"}}`))
	require.NoError(t, err)
	assert.Equal(t, hook.ActionDeny, v.Action)
	assert.Equal(t, "destructive", v.Reason)
}

func TestInlineDenyReasonFallback(t *testing.T) {
	a := adapter.NewInline(inlineConfig(
		hook.InlineRule{Field: "tool", Value: "bash", Action: hook.ActionDeny},
	), testLogger())

	v, err := a.Invoke(context.Background(), hook.PreToolUse, json.RawMessage(`{"tool":"bash"}`))
	require.NoError(t, err)
	assert.Equal(t, hook.ActionDeny, v.Action)
	assert.Contains(t, v.Reason, "denied by rule")
}

func TestInlineFirstMatchWins(t *testing.T) {
	a := adapter.NewInline(inlineConfig(
		hook.InlineRule{Field: "tool", Value: "bash", Action: hook.ActionContinue, Reason: "first"},
		hook.InlineRule{Field: "tool", Value: "bash", Action: hook.ActionDeny, Reason: "second"},
	), testLogger())

	v, err := a.Invoke(context.Background(), hook.PreToolUse, json.RawMessage(`{"tool":"bash"}`))
	require.NoError(t, err)
	assert.Equal(t, hook.ActionContinue, v.Action)
	assert.Equal(t, "first", v.Reason)
}

func TestInlineModify(t *testing.T) {
	a := adapter.NewInline(inlineConfig(
		hook.InlineRule{
			Field:       "args.path",
			Operator:    hook.OpGlob,
			Value:       "/etc/**",
			Action:      hook.ActionModify,
			ModifyField: "args.path",
			ModifyValue: "/tmp/safe",
		},
	), testLogger())

	v, err := a.Invoke(context.Background(), hook.PreToolUse, json.RawMessage(`{"args":{"path":"/etc/passwd","data":"x"}}`))
	require.NoError(t, err)
	require.Equal(t, hook.ActionModify, v.Action)

	var got struct {
		Args struct {
			Path string `json:"path"`
			Data string `json:"data"`
		} `json:"args"`
	}
	require.NoError(t, json.Unmarshal(v.ModifiedData, &got))
	assert.Equal(t, "/tmp/safe", got.Args.Path)
	assert.Equal(t, "x", got.Args.Data, "untouched fields survive the rewrite")
}

func TestInlineModifyMissingTargetDegrades(t *testing.T) {
	a := adapter.NewInline(inlineConfig(
		hook.InlineRule{Field: "tool", Value: "bash", Action: hook.ActionModify, Reason: "incomplete"},
	), testLogger())

	v, err := a.Invoke(context.Background(), hook.PreToolUse, json.RawMessage(`{"tool":"bash"}`))
	require.NoError(t, err)
	assert.Equal(t, hook.ActionContinue, v.Action)
}
