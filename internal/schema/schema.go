// Package schema generates the JSON Schema for settings documents.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/arlenner/agent-hooks-go/internal/config"
)

// Settings reflects the settings document structure into a JSON Schema,
// suitable for editor validation of settings.yaml files.
func Settings() (json.RawMessage, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}
	s := r.Reflect(&config.Document{})
	s.Title = "agent-hooks settings"
	s.Description = "Layered hook configuration (user, project, project-local)."

	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("schema: marshal: %w", err)
	}
	return out, nil
}
