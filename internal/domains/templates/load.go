package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is the on-disk form of a template
type Definition struct {
	Body     string             `yaml:"body"`
	Bindings map[string]*string `yaml:"bindings,omitempty"`
}

// LoadFile reads a template from path. YAML files (.yaml, .yml) are parsed as
// a Definition; a binding whose value is null becomes a null binding. Any
// other file is used verbatim as the body.
func LoadFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return Parse(data)
	default:
		return New(string(data)), nil
	}
}

// Parse builds a template from a YAML definition
func Parse(data []byte) (*Template, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse template definition: %w", err)
	}
	if def.Body == "" {
		return nil, fmt.Errorf("template definition has no body")
	}

	t := New(def.Body)
	for name, value := range def.Bindings {
		if value == nil {
			t.AddNullBinding(name)
			continue
		}
		t.AddBinding(name, *value)
	}
	return t, nil
}
