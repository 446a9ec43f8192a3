package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlenner/agent-hooks-go/hook"
	"github.com/arlenner/agent-hooks-go/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	writeFile(t, path, `
hooks:
  timeout: 10
  definitions:
    - name: deny-rm
      kind: inline
      events: [PreToolUse]
      tools: [bash]
      priority: 5
      rules:
        - field: args.command
          operator: contains
          value: rm -rf
          action: deny
          reason: destructive
    - name: notify
      kind: command
      command: "echo done >&2"
      events: [SessionEnd]
      timeout: 2
`)

	doc, err := config.Load(path)
	require.NoError(t, err)

	configs := doc.HookConfigs()
	require.Len(t, configs, 2)

	first := configs[0]
	assert.Equal(t, "deny-rm", first.Name)
	assert.Equal(t, hook.KindInline, first.Kind)
	assert.Equal(t, []hook.Event{hook.PreToolUse}, first.Matcher.Events)
	assert.Equal(t, []string{"bash"}, first.Matcher.Tools)
	assert.Equal(t, 5, first.Priority)
	assert.Equal(t, 10*time.Second, first.Timeout, "section timeout applies when unset")
	require.Len(t, first.Rules, 1)
	assert.Equal(t, hook.OpContains, first.Rules[0].Operator)
	assert.Equal(t, hook.ActionDeny, first.Rules[0].Action)

	second := configs[1]
	assert.Equal(t, hook.KindCommand, second.Kind)
	assert.Equal(t, 2*time.Second, second.Timeout, "own timeout beats the section default")
	assert.Equal(t, hook.DefaultPriority, second.Priority)

	require.NoError(t, hook.ValidateSet(configs))
}

func TestLoadNestedMatcherShape(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	writeFile(t, path, `
hooks:
  definitions:
    - name: deny-rm
      kind: inline
      matcher:
        events: [PreToolUse]
        tools: [bash]
        session_types: [root]
        fields:
          - path: args.command
            operator: contains
            value: sudo
      inline_rules:
        - field: args.command
          operator: contains
          value: rm -rf
          action: deny
          reason: destructive
`)

	doc, err := config.Load(path)
	require.NoError(t, err)

	configs := doc.HookConfigs()
	require.Len(t, configs, 1)

	c := configs[0]
	require.NotEmpty(t, c.Matcher.Events)
	assert.Equal(t, []hook.Event{hook.PreToolUse}, c.Matcher.Events)
	assert.Equal(t, []string{"bash"}, c.Matcher.Tools)
	assert.Equal(t, []string{"root"}, c.Matcher.SessionTypes)
	require.Len(t, c.Matcher.Fields, 1)
	assert.Equal(t, "args.command", c.Matcher.Fields[0].Path)
	assert.Equal(t, hook.OpContains, c.Matcher.Fields[0].Operator)

	require.Len(t, c.Rules, 1)
	assert.Equal(t, hook.ActionDeny, c.Rules[0].Action)
	assert.Equal(t, "destructive", c.Rules[0].Reason)

	require.NoError(t, hook.ValidateSet(configs))
}

func TestLoadNestedMatcherBeatsAliases(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	writeFile(t, path, `
hooks:
  definitions:
    - name: mixed
      kind: command
      command: "true"
      matcher:
        tools: [bash]
      tools: [read_file]
      events: [PostToolUse]
`)

	doc, err := config.Load(path)
	require.NoError(t, err)

	configs := doc.HookConfigs()
	require.Len(t, configs, 1)
	assert.Equal(t, []string{"bash"}, configs[0].Matcher.Tools, "nested block wins for conditions it sets")
	assert.Equal(t, []hook.Event{hook.PostToolUse}, configs[0].Matcher.Events, "aliases fill conditions the block leaves unset")
}

func TestLoadMergesLayers(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "user.yaml")
	project := filepath.Join(dir, "project.yaml")

	writeFile(t, user, `
hooks:
  timeout: 10
  llm_model: claude-haiku-4-5
  definitions:
    - name: user-hook
      kind: command
      command: "true"
`)
	writeFile(t, project, `
hooks:
  timeout: 20
  disabled: [user-hook]
  definitions:
    - name: project-hook
      kind: command
      command: "true"
`)

	doc, err := config.Load(user, project)
	require.NoError(t, err)

	assert.Equal(t, 20, doc.Hooks.TimeoutSeconds, "later layer overrides scalars")
	assert.Equal(t, "claude-haiku-4-5", doc.Hooks.LLMModel, "earlier scalars survive")

	configs := doc.HookConfigs()
	require.Len(t, configs, 2, "definitions accumulate across layers")
	assert.True(t, configs[0].Disabled, "disabled list applies by name")
	assert.False(t, configs[1].Disabled)
}

func TestLoadEnabledFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	writeFile(t, path, `
hooks:
  definitions:
    - name: off-hook
      kind: command
      command: "true"
      enabled: false
    - name: on-hook
      kind: command
      command: "true"
      enabled: true
`)

	doc, err := config.Load(path)
	require.NoError(t, err)

	configs := doc.HookConfigs()
	require.Len(t, configs, 2)
	assert.True(t, configs[0].Disabled)
	assert.False(t, configs[1].Disabled)
}

func TestLoadSkipsMissingFiles(t *testing.T) {
	doc, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, doc.HookConfigs())
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	writeFile(t, path, "hooks: [not: a: mapping\n")

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestDefaultPaths(t *testing.T) {
	paths := config.DefaultPaths("/proj")
	require.NotEmpty(t, paths)
	assert.Contains(t, paths, filepath.Join("/proj", ".agent-hooks", "settings.yaml"))
	assert.Contains(t, paths, filepath.Join("/proj", ".agent-hooks", "settings.local.yaml"))
}
