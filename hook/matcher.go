package hook

import (
	"encoding/json"

	"github.com/arlenner/agent-hooks-go/internal/fieldpath"
)

// Matches reports whether the matcher applies to one occurrence. It is
// pure and side-effect free. Conditions are checked cheapest first:
// event kind membership, then tool name, then field filters, then
// session type.
func (m Matcher) Matches(event Event, data json.RawMessage) bool {
	if len(m.Events) > 0 && !containsEvent(m.Events, event) {
		return false
	}

	// A payload without a tool field passes the tool filter; only a
	// present, non-matching tool rejects.
	if len(m.Tools) > 0 {
		if tool, ok := fieldpath.Lookup(data, "tool"); ok && tool != "" {
			if !containsString(m.Tools, tool) {
				return false
			}
		}
	}

	for _, f := range m.Fields {
		value, ok := fieldpath.Lookup(data, f.Path)
		if !ok {
			return false
		}
		if !fieldpath.Match(string(f.Operator), f.Value, value) {
			return false
		}
	}

	if len(m.SessionTypes) > 0 {
		sessionType := "root"
		if parent, ok := fieldpath.Lookup(data, "parent_id"); ok && parent != "" {
			sessionType = "subagent"
		}
		if !containsString(m.SessionTypes, sessionType) {
			return false
		}
	}

	return true
}

func containsEvent(events []Event, e Event) bool {
	for _, v := range events {
		if v == e {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
