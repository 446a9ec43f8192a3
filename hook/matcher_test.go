package hook_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arlenner/agent-hooks-go/hook"
)

func payload(s string) json.RawMessage { return json.RawMessage(s) }

func TestEmptyMatcherMatchesEverything(t *testing.T) {
	var m hook.Matcher
	assert.True(t, m.Matches(hook.PreToolUse, payload(`{"tool":"bash"}`)))
	assert.True(t, m.Matches(hook.SessionEnd, nil))
}

func TestMatchByEvent(t *testing.T) {
	m := hook.Matcher{Events: []hook.Event{hook.PreToolUse, hook.Error}}
	assert.True(t, m.Matches(hook.PreToolUse, nil))
	assert.True(t, m.Matches(hook.Error, nil))
	assert.False(t, m.Matches(hook.PostToolUse, nil))
}

func TestMatchByTool(t *testing.T) {
	m := hook.Matcher{Tools: []string{"bash", "write_file"}}

	assert.True(t, m.Matches(hook.PreToolUse, payload(`{"tool":"bash"}`)))
	assert.False(t, m.Matches(hook.PreToolUse, payload(`{"tool":"read_file"}`)))

	// A payload without a tool field passes the tool filter.
	assert.True(t, m.Matches(hook.SessionStart, payload(`{"session_id":"s"}`)))
}

func TestMatchByField(t *testing.T) {
	m := hook.Matcher{
		Fields: []hook.FieldFilter{
			{Path: "args.command", Operator: hook.OpContains, Value: "rm"},
		},
	}

	assert.True(t, m.Matches(hook.PreToolUse, payload(`{"args":{"command":"rm -rf /tmp/x"}}`)))
	assert.False(t, m.Matches(hook.PreToolUse, payload(`{"args":{"command":"ls"}}`)))

	// A missing field path never matches.
	assert.False(t, m.Matches(hook.PreToolUse, payload(`{"args":{}}`)))
}

func TestMatchFieldOperators(t *testing.T) {
	glob := hook.Matcher{Fields: []hook.FieldFilter{
		{Path: "args.path", Operator: hook.OpGlob, Value: "/etc/**"},
	}}
	assert.True(t, glob.Matches(hook.PreToolUse, payload(`{"args":{"path":"/etc/ssh/config"}}`)))
	assert.False(t, glob.Matches(hook.PreToolUse, payload(`{"args":{"path":"/home/x"}}`)))

	re := hook.Matcher{Fields: []hook.FieldFilter{
		{Path: "tool", Operator: hook.OpRegex, Value: "^(bash|sh)$"},
	}}
	assert.True(t, re.Matches(hook.PreToolUse, payload(`{"tool":"sh"}`)))
	assert.False(t, re.Matches(hook.PreToolUse, payload(`{"tool":"shell"}`)))
}

func TestMatchBySessionType(t *testing.T) {
	root := hook.Matcher{SessionTypes: []string{"root"}}
	sub := hook.Matcher{SessionTypes: []string{"subagent"}}

	withParent := payload(`{"session_id":"s2","parent_id":"s1"}`)
	withoutParent := payload(`{"session_id":"s1"}`)

	assert.True(t, root.Matches(hook.PreToolUse, withoutParent))
	assert.False(t, root.Matches(hook.PreToolUse, withParent))

	assert.True(t, sub.Matches(hook.PreToolUse, withParent))
	assert.False(t, sub.Matches(hook.PreToolUse, withoutParent))
}

func TestMatchAllConditionsMustHold(t *testing.T) {
	m := hook.Matcher{
		Events: []hook.Event{hook.PreToolUse},
		Tools:  []string{"bash"},
		Fields: []hook.FieldFilter{
			{Path: "args.command", Operator: hook.OpContains, Value: "sudo"},
		},
	}

	ok := payload(`{"tool":"bash","args":{"command":"sudo reboot"}}`)
	assert.True(t, m.Matches(hook.PreToolUse, ok))
	assert.False(t, m.Matches(hook.PostToolUse, ok))
	assert.False(t, m.Matches(hook.PreToolUse, payload(`{"tool":"bash","args":{"command":"ls"}}`)))
}
