package build

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// Rule is single dispatcher call: expression such as "md.paddingX" with
// value and optional pseudo selectors as arguments.
type Rule struct {
	Expr string `yaml:"expr"`
	Args []any  `yaml:"args,omitempty"`
}

// Style is named composition. Referenced styles come first, rules after
// them, so rules override what referenced styles set.
type Style struct {
	Name    string   `yaml:"name"`
	Compose []string `yaml:"compose,omitempty"`
	Rules   []Rule   `yaml:"rules,omitempty"`
}

// Recipe describes styles to generate.
type Recipe struct {
	// Prefix overwrites configured engine prefix when set.
	Prefix string  `yaml:"prefix,omitempty"`
	Styles []Style `yaml:"styles"`
}

// LoadRecipe reads recipe from file.
func LoadRecipe(path string) (*Recipe, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read recipe: %w", err)
	}
	r, err := ParseRecipe(data)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to parse recipe %q: %w", path, err)
	}
	return r, data, nil
}

// ParseRecipe decodes recipe rejecting unknown fields.
func ParseRecipe(data []byte) (*Recipe, error) {
	r := &Recipe{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(r); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	seen := make(map[string]struct{}, len(r.Styles))
	for i, s := range r.Styles {
		if s.Name == "" {
			return nil, fmt.Errorf("style %d has no name", i)
		}
		if _, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("duplicate style %q", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return r, nil
}
