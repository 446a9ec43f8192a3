// Package config loads layered hook settings files and converts them
// into dispatch configs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/arlenner/agent-hooks-go/hook"
)

const (
	settingsDir       = ".agent-hooks"
	settingsFile      = "settings.yaml"
	settingsLocalFile = "settings.local.yaml"
	envPrefix         = "HOOKS"
)

// Document is the root of a settings file.
type Document struct {
	Hooks Section `mapstructure:"hooks" json:"hooks" yaml:"hooks"`
}

// Section holds global hook options plus the handler definitions.
// Later settings layers override scalars and append definitions.
type Section struct {
	// TimeoutSeconds is the default per-handler timeout applied to
	// definitions that do not set their own.
	TimeoutSeconds int `mapstructure:"timeout" json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// LLMModel names the model used by llm-kind handlers.
	LLMModel string `mapstructure:"llm_model" json:"llm_model,omitempty" yaml:"llm_model,omitempty"`

	// Disabled lists handler names to skip at load time.
	Disabled []string `mapstructure:"disabled" json:"disabled,omitempty" yaml:"disabled,omitempty"`

	Definitions []Definition `mapstructure:"definitions" json:"definitions,omitempty" yaml:"definitions,omitempty"`
}

// Definition is one handler entry in a settings file. It mirrors
// hook.Config with file-friendly field types. The matcher lives in a
// nested block; the flattened keys below it are accepted as aliases and
// apply only where the nested block leaves a condition unset.
type Definition struct {
	Name string `mapstructure:"name" json:"name" yaml:"name"`
	Kind string `mapstructure:"kind" json:"kind" yaml:"kind"`

	Matcher MatcherDef `mapstructure:"matcher" json:"matcher,omitempty" yaml:"matcher,omitempty"`

	Events       []string      `mapstructure:"events" json:"events,omitempty" yaml:"events,omitempty"`
	Tools        []string      `mapstructure:"tools" json:"tools,omitempty" yaml:"tools,omitempty"`
	SessionTypes []string      `mapstructure:"session_types" json:"session_types,omitempty" yaml:"session_types,omitempty"`
	Fields       []FieldFilter `mapstructure:"fields" json:"fields,omitempty" yaml:"fields,omitempty"`

	Command string `mapstructure:"command" json:"command,omitempty" yaml:"command,omitempty"`
	Script  string `mapstructure:"script" json:"script,omitempty" yaml:"script,omitempty"`
	Prompt  string `mapstructure:"prompt" json:"prompt,omitempty" yaml:"prompt,omitempty"`

	// InlineRules is the documented key; Rules is kept as an alias.
	InlineRules []Rule `mapstructure:"inline_rules" json:"inline_rules,omitempty" yaml:"inline_rules,omitempty"`
	Rules       []Rule `mapstructure:"rules" json:"rules,omitempty" yaml:"rules,omitempty"`

	TimeoutSeconds int    `mapstructure:"timeout" json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Priority       int    `mapstructure:"priority" json:"priority,omitempty" yaml:"priority,omitempty"`
	Enabled        *bool  `mapstructure:"enabled" json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Description    string `mapstructure:"description" json:"description,omitempty" yaml:"description,omitempty"`
}

// MatcherDef is the nested matcher block of a definition.
type MatcherDef struct {
	Events       []string      `mapstructure:"events" json:"events,omitempty" yaml:"events,omitempty"`
	Tools        []string      `mapstructure:"tools" json:"tools,omitempty" yaml:"tools,omitempty"`
	Fields       []FieldFilter `mapstructure:"fields" json:"fields,omitempty" yaml:"fields,omitempty"`
	SessionTypes []string      `mapstructure:"session_types" json:"session_types,omitempty" yaml:"session_types,omitempty"`
}

// matcher resolves the nested block against the flattened aliases.
func (d Definition) matcher() MatcherDef {
	m := d.Matcher
	if len(m.Events) == 0 {
		m.Events = d.Events
	}
	if len(m.Tools) == 0 {
		m.Tools = d.Tools
	}
	if len(m.Fields) == 0 {
		m.Fields = d.Fields
	}
	if len(m.SessionTypes) == 0 {
		m.SessionTypes = d.SessionTypes
	}
	return m
}

// rules resolves the inline_rules key against the rules alias.
func (d Definition) rules() []Rule {
	if len(d.InlineRules) > 0 {
		return d.InlineRules
	}
	return d.Rules
}

// FieldFilter is a matcher condition on a payload field.
type FieldFilter struct {
	Path     string `mapstructure:"path" json:"path" yaml:"path"`
	Operator string `mapstructure:"operator" json:"operator,omitempty" yaml:"operator,omitempty"`
	Value    string `mapstructure:"value" json:"value" yaml:"value"`
}

// Rule is one inline-kind rule entry.
type Rule struct {
	Field       string `mapstructure:"field" json:"field" yaml:"field"`
	Operator    string `mapstructure:"operator" json:"operator,omitempty" yaml:"operator,omitempty"`
	Value       string `mapstructure:"value" json:"value" yaml:"value"`
	Action      string `mapstructure:"action" json:"action" yaml:"action"`
	Reason      string `mapstructure:"reason" json:"reason,omitempty" yaml:"reason,omitempty"`
	ModifyField string `mapstructure:"modify_field" json:"modify_field,omitempty" yaml:"modify_field,omitempty"`
	ModifyValue any    `mapstructure:"modify_value" json:"modify_value,omitempty" yaml:"modify_value,omitempty"`
}

// DefaultPaths returns the settings files in merge order
// (user, then project, then project-local). Missing files are fine;
// Load skips them.
func DefaultPaths(projectDir string) []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, settingsDir, settingsFile))
	}
	if projectDir != "" {
		paths = append(paths,
			filepath.Join(projectDir, settingsDir, settingsFile),
			filepath.Join(projectDir, settingsDir, settingsLocalFile),
		)
	}
	return paths
}

// Load reads and merges the given settings files in order. Later files
// override scalar options and append their definitions. HOOKS_TIMEOUT
// and HOOKS_LLM_MODEL environment variables override the file values.
func Load(paths ...string) (*Document, error) {
	v := viper.New()
	v.BindEnv("hooks.timeout", envPrefix+"_TIMEOUT")
	v.BindEnv("hooks.llm_model", envPrefix+"_LLM_MODEL")

	var defs []Definition
	loaded := false
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		layer := viper.New()
		layer.SetConfigFile(path)
		if err := layer.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		var d Document
		if err := layer.Unmarshal(&d); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		defs = append(defs, d.Hooks.Definitions...)

		v.SetConfigFile(path)
		if !loaded {
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
			loaded = true
		} else if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("config: merge %s: %w", path, err)
		}
	}

	var doc Document
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("config: parse settings: %w", err)
	}
	// Viper's merge replaces the definitions slice wholesale; restore
	// the accumulated set so every layer contributes.
	doc.Hooks.Definitions = defs
	return &doc, nil
}

// HookConfigs converts the document into dispatch configs. Definitions
// named in the disabled list, or with enabled: false, come back with
// Disabled set so the manager skips them.
func (d *Document) HookConfigs() []hook.Config {
	disabled := make(map[string]bool, len(d.Hooks.Disabled))
	for _, name := range d.Hooks.Disabled {
		disabled[name] = true
	}

	sectionTimeout := time.Duration(d.Hooks.TimeoutSeconds) * time.Second

	configs := make([]hook.Config, 0, len(d.Hooks.Definitions))
	for _, def := range d.Hooks.Definitions {
		cfg := hook.Config{
			Name:        def.Name,
			Kind:        hook.Kind(def.Kind),
			Command:     def.Command,
			Script:      def.Script,
			Prompt:      def.Prompt,
			Priority:    def.Priority,
			Description: def.Description,
		}
		if cfg.Priority == 0 {
			cfg.Priority = hook.DefaultPriority
		}
		m := def.matcher()
		for _, e := range m.Events {
			cfg.Matcher.Events = append(cfg.Matcher.Events, hook.Event(e))
		}
		cfg.Matcher.Tools = m.Tools
		cfg.Matcher.SessionTypes = m.SessionTypes
		for _, f := range m.Fields {
			cfg.Matcher.Fields = append(cfg.Matcher.Fields, hook.FieldFilter{
				Path:     f.Path,
				Operator: hook.Op(f.Operator),
				Value:    f.Value,
			})
		}
		for _, r := range def.rules() {
			cfg.Rules = append(cfg.Rules, hook.InlineRule{
				Field:       r.Field,
				Operator:    hook.Op(r.Operator),
				Value:       r.Value,
				Action:      hook.Action(r.Action),
				Reason:      r.Reason,
				ModifyField: r.ModifyField,
				ModifyValue: r.ModifyValue,
			})
		}
		switch {
		case def.TimeoutSeconds > 0:
			cfg.Timeout = time.Duration(def.TimeoutSeconds) * time.Second
		case sectionTimeout > 0:
			cfg.Timeout = sectionTimeout
		}
		if disabled[def.Name] || (def.Enabled != nil && !*def.Enabled) {
			cfg.Disabled = true
		}
		configs = append(configs, cfg)
	}
	return configs
}
