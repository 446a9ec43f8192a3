// Package fieldpath resolves dot-separated paths into JSON payloads and
// applies the four comparison operators shared by matcher field filters
// and inline rules.
package fieldpath

import (
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Lookup resolves path (e.g. "args.command") in data and returns the
// value rendered as a string. A missing intermediate key yields ok=false,
// never an error.
func Lookup(data []byte, path string) (value string, ok bool) {
	r := gjson.GetBytes(data, path)
	if !r.Exists() {
		return "", false
	}
	return r.String(), true
}

// Set returns a copy of data with value written at path. Missing
// intermediate objects are created.
func Set(data []byte, path string, value any) ([]byte, error) {
	return sjson.SetBytes(data, path, value)
}

// Match applies a comparison operator. An empty operator means equals.
// Unknown operators and invalid glob or regex patterns match nothing.
func Match(operator, pattern, value string) bool {
	switch operator {
	case "", "equals":
		return value == pattern
	case "contains":
		return strings.Contains(value, pattern)
	case "glob":
		ok, err := doublestar.Match(pattern, value)
		return err == nil && ok
	case "matches", "regex":
		re, err := regexp.Compile(pattern)
		return err == nil && re.MatchString(value)
	}
	return false
}

var placeholderRe = regexp.MustCompile(`\{\{\s*([^\s{}]+)\s*\}\}`)

// Render substitutes {{field.path}} placeholders in tmpl from data.
// Missing placeholders render as the empty string, never an error.
func Render(tmpl string, data []byte) string {
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		path := placeholderRe.FindStringSubmatch(m)[1]
		r := gjson.GetBytes(data, path)
		if !r.Exists() {
			return ""
		}
		return r.String()
	})
}
