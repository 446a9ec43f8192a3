// Package hook defines the public types for the hook dispatch engine.
//
// Hooks let independently configured handlers observe, veto, or rewrite
// operations as they occur inside an agent session. A [Config] binds a
// handler of one of four kinds (internal function, external command,
// inline rules, model-backed) to a [Matcher] that decides which event
// occurrences it receives. Each invocation produces a [Verdict].
package hook

import (
	"context"
	"encoding/json"
)

// Event identifies when a hook fires.
type Event string

const (
	PreToolUse   Event = "PreToolUse"
	PostToolUse  Event = "PostToolUse"
	SessionStart Event = "SessionStart"
	SessionEnd   Event = "SessionEnd"
	Error        Event = "Error"
	Checkpoint   Event = "Checkpoint"
	ModelSwitch  Event = "ModelSwitch"
	MemoryUpdate Event = "MemoryUpdate"
	Notification Event = "Notification"
)

// SessionScoped reports whether occurrences of this event kind are
// expected to carry a session_id field for correlation. Absence is
// tolerated; handlers that need correlation simply find the field empty.
func (e Event) SessionScoped() bool {
	switch e {
	case PreToolUse, PostToolUse, Error, Checkpoint, ModelSwitch:
		return true
	}
	return false
}

// Action is the outcome a handler requests for an occurrence.
type Action string

const (
	ActionContinue Action = "continue"
	ActionDeny     Action = "deny"
	ActionModify   Action = "modify"
)

// Valid reports whether a is one of the three known actions.
func (a Action) Valid() bool {
	return a == ActionContinue || a == ActionDeny || a == ActionModify
}

// Verdict is the result of one handler invocation.
type Verdict struct {
	Action Action `json:"action"`
	Reason string `json:"reason,omitempty"`

	// ModifiedData is the full replacement payload for ActionModify.
	// A modify verdict without it is degraded to continue by the
	// dispatch manager, with a logged warning.
	ModifiedData json.RawMessage `json:"modified_data,omitempty"`

	// Handler is the name of the handler that produced this verdict.
	// Stamped by the dispatch manager for audit attribution.
	Handler string `json:"handler,omitempty"`
}

// Continue creates a continue verdict. The reason is optional.
func Continue(reason string) *Verdict {
	return &Verdict{Action: ActionContinue, Reason: reason}
}

// Deny creates a deny verdict.
func Deny(reason string) *Verdict {
	return &Verdict{Action: ActionDeny, Reason: reason}
}

// Modify creates a modify verdict carrying a full replacement payload.
func Modify(data json.RawMessage, reason string) *Verdict {
	return &Verdict{Action: ActionModify, Reason: reason, ModifiedData: data}
}

// Func is the signature for in-process handlers. The payload is a
// read-only view: a handler that wants changes returns a modify verdict
// with a replacement, never mutates data in place.
type Func func(ctx context.Context, event Event, data json.RawMessage) (*Verdict, error)

// ToolUseData is the payload for PreToolUse and PostToolUse occurrences.
type ToolUseData struct {
	Tool       string          `json:"tool"`
	Args       json.RawMessage `json:"args,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"` // PostToolUse only
	Error      string          `json:"error,omitempty"`  // PostToolUse only
	DurationMs int64           `json:"duration_ms,omitempty"`
	SessionID  string          `json:"session_id,omitempty"`
	ParentID   string          `json:"parent_id,omitempty"`
}

// SessionData is the payload for SessionStart and SessionEnd occurrences.
type SessionData struct {
	SessionID  string         `json:"session_id"`
	ParentID   string         `json:"parent_id,omitempty"`
	Profile    string         `json:"profile,omitempty"`
	Config     map[string]any `json:"config,omitempty"`
	DurationMs int64          `json:"duration_ms,omitempty"`
	ExitReason string         `json:"exit_reason,omitempty"`
}

// ErrorData is the payload for Error occurrences.
type ErrorData struct {
	ErrorType    string `json:"error_type"`
	ErrorMessage string `json:"error_message"`
	Tool         string `json:"tool,omitempty"`
	Severity     string `json:"severity,omitempty"`
	SessionID    string `json:"session_id,omitempty"`
}

// CheckpointData is the payload for Checkpoint occurrences.
type CheckpointData struct {
	CheckpointID   string `json:"checkpoint_id"`
	CheckpointType string `json:"checkpoint_type,omitempty"` // auto, manual, periodic
	MessageCount   int    `json:"message_count,omitempty"`
	StoragePath    string `json:"storage_path,omitempty"`
	SessionID      string `json:"session_id,omitempty"`
}

// ModelSwitchData is the payload for ModelSwitch occurrences.
type ModelSwitchData struct {
	OldModel    string `json:"old_model,omitempty"`
	NewModel    string `json:"new_model"`
	Reason      string `json:"reason,omitempty"`
	TriggeredBy string `json:"triggered_by,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
}

// MemoryUpdateData is the payload for MemoryUpdate occurrences.
type MemoryUpdateData struct {
	FilePath    string `json:"file_path"`
	UpdateType  string `json:"update_type,omitempty"` // created, modified, deleted
	ContentSize int64  `json:"content_size,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
}

// NotificationData is the payload for Notification occurrences.
type NotificationData struct {
	Message   string `json:"message"`
	Level     string `json:"level,omitempty"` // info, warning, error
	Source    string `json:"source,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}
