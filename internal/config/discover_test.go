package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlenner/agent-hooks-go/hook"
	"github.com/arlenner/agent-hooks-go/internal/config"
)

func writeScript(t *testing.T, dir, name string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/bash\n"), mode))
}

func TestDiscoverScripts(t *testing.T) {
	base := t.TempDir()
	hooksDir := filepath.Join(base, "hooks")
	writeScript(t, hooksDir, "pre-bash.sh", 0o755)
	writeScript(t, hooksDir, "post-write_file.py", 0o755)
	writeScript(t, hooksDir, "on-session-start.sh", 0o755)

	configs := config.DiscoverScripts(base)
	require.Len(t, configs, 3)

	byName := make(map[string]hook.Config)
	for _, c := range configs {
		byName[c.Name] = c
	}

	pre := byName["script:pre-bash.sh"]
	assert.Equal(t, hook.KindCommand, pre.Kind)
	assert.Equal(t, []hook.Event{hook.PreToolUse}, pre.Matcher.Events)
	assert.Equal(t, []string{"bash"}, pre.Matcher.Tools)
	assert.Equal(t, filepath.Join(hooksDir, "pre-bash.sh"), pre.Script)

	post := byName["script:post-write_file.py"]
	assert.Equal(t, []hook.Event{hook.PostToolUse}, post.Matcher.Events)
	assert.Equal(t, []string{"write_file"}, post.Matcher.Tools)

	on := byName["script:on-session-start.sh"]
	assert.Equal(t, []hook.Event{hook.SessionStart}, on.Matcher.Events)
	assert.Empty(t, on.Matcher.Tools)

	require.NoError(t, hook.ValidateSet(configs))
}

func TestDiscoverSkipsNonExecutable(t *testing.T) {
	base := t.TempDir()
	writeScript(t, filepath.Join(base, "hooks"), "pre-bash.sh", 0o644)

	assert.Empty(t, config.DiscoverScripts(base))
}

func TestDiscoverSkipsUnknownNames(t *testing.T) {
	base := t.TempDir()
	hooksDir := filepath.Join(base, "hooks")
	writeScript(t, hooksDir, "README.sh", 0o755)
	writeScript(t, hooksDir, "on-no-such-event.sh", 0o755)
	writeScript(t, hooksDir, "pre-bash.txt", 0o755)

	assert.Empty(t, config.DiscoverScripts(base))
}

func TestDiscoverMissingDirIsEmpty(t *testing.T) {
	assert.Empty(t, config.DiscoverScripts(filepath.Join(t.TempDir(), "nope")))
}
