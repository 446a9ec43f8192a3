package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arlenner/agent-hooks-go/hook"
)

// eventNames maps the kebab-case names used in on-* script files to
// event kinds.
var eventNames = map[string]hook.Event{
	"session-start": hook.SessionStart,
	"session-end":   hook.SessionEnd,
	"error":         hook.Error,
	"checkpoint":    hook.Checkpoint,
	"model-switch":  hook.ModelSwitch,
	"memory-update": hook.MemoryUpdate,
	"notification":  hook.Notification,
}

// DiscoverScripts scans each search path's hooks/ directory for
// executable scripts and builds command configs from their names:
//
//   - pre-<tool>.sh|.py  fires on PreToolUse for that tool
//   - post-<tool>.sh|.py fires on PostToolUse for that tool
//   - on-<event>.sh|.py  fires on the named lifecycle event
//
// Files with other names, extensions, or without the executable bit
// are skipped.
func DiscoverScripts(searchPaths ...string) []hook.Config {
	var configs []hook.Config
	for _, base := range searchPaths {
		dir := filepath.Join(base, "hooks")
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil || info.Mode()&0o111 == 0 {
				continue
			}
			ext := filepath.Ext(entry.Name())
			if ext != ".sh" && ext != ".py" {
				continue
			}

			stem := strings.TrimSuffix(entry.Name(), ext)
			cfg, ok := scriptConfig(stem)
			if !ok {
				continue
			}
			cfg.Name = "script:" + entry.Name()
			cfg.Script = filepath.Join(dir, entry.Name())
			cfg.Description = "discovered from " + cfg.Script
			configs = append(configs, cfg)
		}
	}
	return configs
}

func scriptConfig(stem string) (hook.Config, bool) {
	cfg := hook.Config{Kind: hook.KindCommand, Priority: hook.DefaultPriority}
	switch {
	case strings.HasPrefix(stem, "pre-"):
		cfg.Matcher.Events = []hook.Event{hook.PreToolUse}
		if tool := stem[len("pre-"):]; tool != "" {
			cfg.Matcher.Tools = []string{tool}
		}
	case strings.HasPrefix(stem, "post-"):
		cfg.Matcher.Events = []hook.Event{hook.PostToolUse}
		if tool := stem[len("post-"):]; tool != "" {
			cfg.Matcher.Tools = []string{tool}
		}
	case strings.HasPrefix(stem, "on-"):
		event, ok := eventNames[stem[len("on-"):]]
		if !ok {
			return hook.Config{}, false
		}
		cfg.Matcher.Events = []hook.Event{event}
	default:
		return hook.Config{}, false
	}
	return cfg, true
}
