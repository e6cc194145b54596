// Package sheet keeps stylesheets atoms are inserted into: one for rules
// without screen and one per configured screen.
package sheet

import (
	"strings"
)

// Sheet accumulates CSS rule text for a single screen.
type Sheet interface {
	// Insert appends rule text to the sheet.
	Insert(rule string)
	// RuleCount reports how many rules sheet already holds. Hosts may refuse
	// to disclose it.
	RuleCount() (int, error)
	// Content returns accumulated text.
	Content() string
}

// Factory creates a sheet for the screen name ("" is the default sheet).
type Factory func(screen string) Sheet

// Memory is in-process sheet.
type Memory struct {
	content strings.Builder
	rules   int
}

// NewMemory returns empty in-process sheet.
func NewMemory(string) Sheet {
	return &Memory{}
}

// Seed replaces sheet content with text of previous extraction holding
// given number of rules.
func (s *Memory) Seed(content string, rules int) {
	s.content.Reset()
	s.content.WriteString(content)
	s.rules = rules
}

func (s *Memory) Insert(rule string) {
	s.content.WriteString(rule)
	s.rules++
}

func (s *Memory) RuleCount() (int, error) {
	return s.rules, nil
}

func (s *Memory) Content() string {
	return s.content.String()
}
