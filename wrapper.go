package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/arlenner/agent-hooks-go/hook"
	"github.com/arlenner/agent-hooks-go/internal/fieldpath"
)

// Operation is the protected work a ToolCallHooks wraps: it receives the
// (possibly rewritten) argument payload and returns the tool result.
type Operation func(ctx context.Context, args json.RawMessage) (json.RawMessage, error)

// ToolCallHooks integrates pre/post hooks into tool execution for one
// session. Construct one per session.
type ToolCallHooks struct {
	manager   *Manager
	sessionID string
	parentID  string
}

// NewToolCallHooks creates the tool-call wrapper for a session. A nil
// manager disables hooking: Wrap just executes the operation.
func NewToolCallHooks(m *Manager, sessionID string) *ToolCallHooks {
	return &ToolCallHooks{manager: m, sessionID: sessionID}
}

// WithParent marks the session as a sub-session so matchers can filter on
// session type.
func (t *ToolCallHooks) WithParent(parentID string) *ToolCallHooks {
	t.parentID = parentID
	return t
}

// Wrap runs op under hook supervision:
//
//  1. Emit PreToolUse. Any deny verdict aborts with a *DeniedError
//     carrying the first denying handler's reason; the operation is
//     never invoked and no post event fires. Deny wins over modify.
//     Otherwise the last modify verdict's replacement args are used.
//  2. Execute op, capturing result, error, and duration.
//  3. Emit PostToolUse unconditionally, also when op itself failed,
//     then return op's result and error unchanged.
func (t *ToolCallHooks) Wrap(ctx context.Context, tool string, args json.RawMessage, op Operation) (json.RawMessage, error) {
	if t.manager == nil {
		return op(ctx, args)
	}

	pre, err := json.Marshal(hook.ToolUseData{
		Tool:      tool,
		Args:      args,
		SessionID: t.sessionID,
		ParentID:  t.parentID,
	})
	if err != nil {
		return nil, err
	}

	verdicts := t.manager.Emit(ctx, hook.PreToolUse, pre)

	// Deny is checked across the whole list before any modify applies.
	for _, v := range verdicts {
		if v.Action == hook.ActionDeny {
			reason := v.Reason
			if reason == "" {
				reason = "tool call denied by hook"
			}
			t.manager.logger.Info("tool denied by hook",
				"tool", tool, "handler", v.Handler, "reason", reason)
			return nil, &DeniedError{Tool: tool, Handler: v.Handler, Reason: reason}
		}
	}
	for _, v := range verdicts {
		if v.Action != hook.ActionModify {
			continue
		}
		// Last modify wins. The replacement payload carries the full
		// occurrence; only its args portion feeds the operation.
		if replaced, ok := fieldpath.Lookup(v.ModifiedData, "args"); ok {
			args = json.RawMessage(replaced)
			t.manager.logger.Debug("tool args rewritten by hook",
				"tool", tool, "handler", v.Handler)
		}
	}

	start := time.Now()
	result, opErr := op(ctx, args)
	durationMs := time.Since(start).Milliseconds()

	post := hook.ToolUseData{
		Tool:       tool,
		Args:       args,
		Result:     result,
		DurationMs: durationMs,
		SessionID:  t.sessionID,
		ParentID:   t.parentID,
	}
	if opErr != nil {
		post.Error = opErr.Error()
	}
	if data, err := json.Marshal(post); err != nil {
		t.manager.logger.Error("encode post payload, skipping post hooks",
			"tool", tool, "error", err)
	} else {
		t.manager.Emit(ctx, hook.PostToolUse, data)
	}

	return result, opErr
}

// LifecycleHooks fires session lifecycle events through the dispatch
// manager. Lifecycle events are observational: verdicts are logged but
// never block, and nothing here raises to the caller.
type LifecycleHooks struct {
	manager   *Manager
	sessionID string
	parentID  string
}

// NewLifecycleHooks creates the lifecycle wrapper for a session. A nil
// manager turns every method into a no-op.
func NewLifecycleHooks(m *Manager, sessionID string) *LifecycleHooks {
	return &LifecycleHooks{manager: m, sessionID: sessionID}
}

// WithParent marks the session as a sub-session.
func (l *LifecycleHooks) WithParent(parentID string) *LifecycleHooks {
	l.parentID = parentID
	return l
}

// OnSessionStart fires SessionStart.
func (l *LifecycleHooks) OnSessionStart(ctx context.Context, profile string, config map[string]any) {
	l.fire(ctx, hook.SessionStart, hook.SessionData{
		SessionID: l.sessionID,
		ParentID:  l.parentID,
		Profile:   profile,
		Config:    config,
	})
}

// OnSessionEnd fires SessionEnd.
func (l *LifecycleHooks) OnSessionEnd(ctx context.Context, duration time.Duration, exitReason string) {
	l.fire(ctx, hook.SessionEnd, hook.SessionData{
		SessionID:  l.sessionID,
		ParentID:   l.parentID,
		DurationMs: duration.Milliseconds(),
		ExitReason: exitReason,
	})
}

// OnError fires Error for a failure inside the session.
func (l *LifecycleHooks) OnError(ctx context.Context, err error, tool, severity string) {
	if err == nil {
		return
	}
	if severity == "" {
		severity = "error"
	}
	l.fire(ctx, hook.Error, hook.ErrorData{
		ErrorType:    errorType(err),
		ErrorMessage: err.Error(),
		Tool:         tool,
		Severity:     severity,
		SessionID:    l.sessionID,
	})
}

// OnCheckpoint fires Checkpoint.
func (l *LifecycleHooks) OnCheckpoint(ctx context.Context, checkpointID, checkpointType string, messageCount int, storagePath string) {
	l.fire(ctx, hook.Checkpoint, hook.CheckpointData{
		CheckpointID:   checkpointID,
		CheckpointType: checkpointType,
		MessageCount:   messageCount,
		StoragePath:    storagePath,
		SessionID:      l.sessionID,
	})
}

// OnModelSwitch fires ModelSwitch.
func (l *LifecycleHooks) OnModelSwitch(ctx context.Context, oldModel, newModel, reason, triggeredBy string) {
	l.fire(ctx, hook.ModelSwitch, hook.ModelSwitchData{
		OldModel:    oldModel,
		NewModel:    newModel,
		Reason:      reason,
		TriggeredBy: triggeredBy,
		SessionID:   l.sessionID,
	})
}

// OnMemoryUpdate fires MemoryUpdate for a memory-file change.
func (l *LifecycleHooks) OnMemoryUpdate(ctx context.Context, filePath, updateType string, contentSize int64) {
	l.fire(ctx, hook.MemoryUpdate, hook.MemoryUpdateData{
		FilePath:    filePath,
		UpdateType:  updateType,
		ContentSize: contentSize,
		SessionID:   l.sessionID,
	})
}

func (l *LifecycleHooks) fire(ctx context.Context, event hook.Event, payload any) {
	if l.manager == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		l.manager.logger.Error("encode lifecycle payload", "event", string(event), "error", err)
		return
	}
	for _, v := range l.manager.Emit(ctx, event, data) {
		l.manager.logger.Info("lifecycle hook verdict (not enforced)",
			"event", string(event), "handler", v.Handler,
			"action", string(v.Action), "reason", v.Reason)
	}
}

func errorType(err error) string {
	return fmt.Sprintf("%T", err)
}
