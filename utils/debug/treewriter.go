// Package debug renders engine state and parsed stylesheets as indented
// text for debug reports and the inspect command.
package debug

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"

	"atomcss/atom"
	"atomcss/css"
)

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}

// Engine writes cached atoms of the engine: pending ones with their future
// rule parts and realized ones with class names in natural order.
func (tw TreeWriter) Engine(depth int, e *atom.Engine) {
	atoms := e.Atoms()
	tw.Line(depth, "Engine prefix=%q screens=%v atoms=%d", e.Prefix(), e.Screens(), len(atoms))

	var (
		pending  []*atom.Atom
		realized []*atom.Atom
	)
	for _, a := range atoms {
		if a.IsRealized() {
			realized = append(realized, a)
		} else {
			pending = append(pending, a)
		}
	}

	tw.Line(depth+1, "Pending: %d", len(pending))
	for _, a := range pending {
		p := a.State().(atom.Pending)
		tw.Line(depth+2, "ID=%q property=%q value=%q pseudo=%q screen=%q", a.ID(), strings.Join(p.PropertyParts, "-"), p.Value, p.Pseudo, p.Screen)
	}

	sort.Slice(realized, func(i, j int) bool {
		return natural.Less(realized[i].String(), realized[j].String())
	})
	tw.Line(depth+1, "Realized: %d", len(realized))
	for _, a := range realized {
		tw.Line(depth+2, "%s ID=%q", a.String(), a.ID())
	}
}

// Stylesheet writes parsed sheet summary: rule count, classes in natural
// order and warnings.
func (tw TreeWriter) Stylesheet(depth int, screen string, ss *css.Stylesheet) {
	label := screen
	if label == "" {
		label = "default"
	}
	tw.Line(depth, "Sheet[%s] rules=%d", label, ss.RuleCount())

	classes := ss.Classes()
	sort.Sort(natural.StringSlice(classes))
	tw.Line(depth+1, "Classes: %d", len(classes))
	for _, c := range classes {
		tw.Line(depth+2, "%s", c)
	}
	if len(ss.Warnings) > 0 {
		tw.Line(depth+1, "Warnings: %d", len(ss.Warnings))
		for _, w := range ss.Warnings {
			tw.TextBlock(depth+2, "warning", w)
		}
	}
}
