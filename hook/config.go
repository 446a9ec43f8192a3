package hook

import (
	"errors"
	"fmt"
	"time"
)

// Kind selects the execution strategy backing a handler.
type Kind string

const (
	KindInternal Kind = "internal" // in-process Go function from the registry
	KindCommand  Kind = "command"  // external shell command or script
	KindLLM      Kind = "llm"      // model-backed judgement
	KindInline   Kind = "inline"   // declarative pattern rules
)

const (
	// DefaultTimeout bounds a single handler invocation when the config
	// does not set its own.
	DefaultTimeout = 30 * time.Second

	// DefaultPriority is the priority settings loaders assign to
	// definitions that do not set one. Lower priorities run earlier.
	DefaultPriority = 100
)

// Op is a comparison operator shared by matcher field filters and inline
// rules.
type Op string

const (
	OpEquals   Op = "equals"
	OpContains Op = "contains"
	OpGlob     Op = "glob"
	OpRegex    Op = "regex"
)

// Valid reports whether o is one of the four known operators.
func (o Op) Valid() bool {
	return o == OpEquals || o == OpContains || o == OpGlob || o == OpRegex
}

// FieldFilter matches a dot-separated payload field against a pattern.
// A missing intermediate key yields no match, never an error.
type FieldFilter struct {
	Path     string `json:"path"`
	Operator Op     `json:"operator"`
	Value    string `json:"value"`
}

// Matcher describes which occurrences a handler applies to. All specified
// conditions must hold; an empty matcher matches everything.
type Matcher struct {
	Events []Event       `json:"events,omitempty"`
	Tools  []string      `json:"tools,omitempty"`
	Fields []FieldFilter `json:"fields,omitempty"`

	// SessionTypes restricts by session shape: "root" (no parent_id in
	// the payload) or "subagent" (parent_id present).
	SessionTypes []string `json:"session_types,omitempty"`
}

// InlineRule is one declarative rule of an inline handler. Rules are
// evaluated in declaration order; the first matching rule's action is the
// handler's verdict, and no match yields continue.
type InlineRule struct {
	Field    string `json:"field"`
	Operator Op     `json:"operator"`
	Value    string `json:"value"`
	Action   Action `json:"action"`
	Reason   string `json:"reason,omitempty"`

	// ModifyField and ModifyValue apply only to ActionModify: the value
	// is set at the dot-separated target path in a copy of the payload.
	ModifyField string `json:"modify_field,omitempty"`
	ModifyValue any    `json:"modify_value,omitempty"`
}

// Config is one handler configuration. Configs are loaded once and are
// immutable thereafter; runtime enable/disable is a dispatch-manager
// concern, not a config mutation.
type Config struct {
	Name    string  `json:"name"`
	Kind    Kind    `json:"kind"`
	Matcher Matcher `json:"matcher,omitempty"`

	Command string       `json:"command,omitempty"` // KindCommand
	Script  string       `json:"script,omitempty"`  // KindCommand
	Prompt  string       `json:"prompt,omitempty"`  // KindLLM
	Rules   []InlineRule `json:"inline_rules,omitempty"`

	Timeout  time.Duration `json:"timeout,omitempty"`
	Priority int           `json:"priority,omitempty"`

	// Disabled skips the handler at load time. The zero value means
	// enabled, so literal Config values don't need an explicit flag.
	Disabled bool `json:"disabled,omitempty"`

	Description string `json:"description,omitempty"`
}

// Configuration errors.
var (
	ErrUnknownKind    = errors.New("hook: unknown handler kind")
	ErrMissingPayload = errors.New("hook: missing kind-specific payload")
	ErrDuplicateName  = errors.New("hook: duplicate handler name")
)

// Validate checks the structural invariants of a single config.
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("hook: handler requires a name")
	}
	switch c.Kind {
	case KindInternal:
		// Nothing extra; the function comes from the registry at load.
	case KindCommand:
		if c.Command == "" && c.Script == "" {
			return fmt.Errorf("%w: command handler %q requires command or script", ErrMissingPayload, c.Name)
		}
	case KindLLM:
		if c.Prompt == "" {
			return fmt.Errorf("%w: llm handler %q requires a prompt", ErrMissingPayload, c.Name)
		}
	case KindInline:
		if len(c.Rules) == 0 {
			return fmt.Errorf("%w: inline handler %q requires inline_rules", ErrMissingPayload, c.Name)
		}
	default:
		return fmt.Errorf("%w: %q (handler %q)", ErrUnknownKind, c.Kind, c.Name)
	}
	for i, r := range c.Rules {
		if r.Field == "" {
			return fmt.Errorf("hook: handler %q rule[%d]: field is required", c.Name, i)
		}
		if r.Operator != "" && !r.Operator.Valid() {
			return fmt.Errorf("hook: handler %q rule[%d]: unknown operator %q", c.Name, i, r.Operator)
		}
		if r.Action != "" && !r.Action.Valid() {
			return fmt.Errorf("hook: handler %q rule[%d]: unknown action %q", c.Name, i, r.Action)
		}
	}
	for i, f := range c.Matcher.Fields {
		if f.Operator != "" && !f.Operator.Valid() {
			return fmt.Errorf("hook: handler %q field filter[%d]: unknown operator %q", c.Name, i, f.Operator)
		}
	}
	return nil
}

// ValidateSet validates every config and rejects duplicate names. Any
// failure rejects the whole set.
func ValidateSet(configs []Config) error {
	seen := make(map[string]bool, len(configs))
	for _, c := range configs {
		if err := c.Validate(); err != nil {
			return err
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// EffectiveTimeout returns the config timeout or the default.
func (c Config) EffectiveTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}
