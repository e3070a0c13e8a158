package templates

import (
	"database/sql"
	"maps"
)

// Template is an immutable body plus a mutable set of named bindings.
// Bindings may be null; null values are rejected (or not) at render time.
type Template struct {
	body     string
	bindings map[string]sql.NullString
}

// New creates a template for the given body
func New(body string) *Template {
	return &Template{
		body:     body,
		bindings: make(map[string]sql.NullString),
	}
}

// AddBinding stores or overwrites the value bound to name
func (t *Template) AddBinding(name, value string) {
	t.bindings[name] = sql.NullString{String: value, Valid: true}
}

// AddNullBinding binds name to an explicit null marker
func (t *Template) AddNullBinding(name string) {
	t.bindings[name] = sql.NullString{Valid: false}
}

// Body returns the template text
func (t *Template) Body() string {
	return t.body
}

// Bindings returns a copy of the bindings. Changes to the returned map
// are not reflected in the template.
func (t *Template) Bindings() map[string]sql.NullString {
	return maps.Clone(t.bindings)
}

// Len returns the number of bindings
func (t *Template) Len() int {
	return len(t.bindings)
}

// Placeholders returns the distinct placeholder names referenced by the body,
// in order of first appearance.
func (t *Template) Placeholders() []string {
	return distinctNames(scan(t.body))
}

func (t *Template) lookup(name string) (sql.NullString, bool) {
	v, ok := t.bindings[name]
	return v, ok
}
