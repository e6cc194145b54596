package css

import (
	"bufio"
	"io"
	"strings"
)

type (
	// Declaration is a single "property: value" pair, value is kept as written.
	Declaration struct {
		Property string
		Value    string
	}

	// Selector is atomic class selector, e.g. ".bc_3:hover" has Class "bc_3"
	// and Pseudo ":hover".
	Selector struct {
		Raw    string
		Class  string
		Pseudo string
	}

	Rule struct {
		Selector     Selector
		Declarations []Declaration
	}

	MediaBlock struct {
		Query string
		Rules []Rule
	}

	// StylesheetItem has exactly one of Rule or MediaBlock set.
	StylesheetItem struct {
		Rule       *Rule
		MediaBlock *MediaBlock
	}

	// Stylesheet is parsed CSS text, items are in source order.
	Stylesheet struct {
		Items    []StylesheetItem
		Warnings []string
	}
)

func (s Selector) IsClass() bool {
	return len(s.Class) > 0
}

// GetProperty returns value of the last declaration of property name.
func (r Rule) GetProperty(name string) (string, bool) {
	for i := len(r.Declarations) - 1; i >= 0; i-- {
		if d := r.Declarations[i]; d.Property == name {
			return d.Value, true
		}
	}
	return "", false
}

// RuleCount returns number of top-level rules. @media block is a single
// rule no matter how many rules it wraps, same as cssRules.length in a
// browser.
func (s *Stylesheet) RuleCount() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// rules calls fn for every rule including ones nested in @media blocks.
func (s *Stylesheet) rules(fn func(r *Rule)) {
	if s == nil {
		return
	}
	for _, item := range s.Items {
		if item.Rule != nil {
			fn(item.Rule)
			continue
		}
		if item.MediaBlock != nil {
			for i := range item.MediaBlock.Rules {
				fn(&item.MediaBlock.Rules[i])
			}
		}
	}
}

// Classes returns class names of all rules in source order.
func (s *Stylesheet) Classes() (names []string) {
	s.rules(func(r *Rule) {
		if r.Selector.IsClass() {
			names = append(names, r.Selector.Class)
		}
	})
	return names
}

func (s *Stylesheet) RulesByClass(class string) (found []Rule) {
	s.rules(func(r *Rule) {
		if r.Selector.Class == class {
			found = append(found, *r)
		}
	})
	return found
}

// printer writes indented CSS remembering first error.
type printer struct {
	w   *bufio.Writer
	cnt int64
	err error
}

func (p *printer) print(parts ...string) {
	for _, s := range parts {
		if p.err != nil {
			return
		}
		n, err := p.w.WriteString(s)
		p.cnt += int64(n)
		p.err = err
	}
}

func (p *printer) rule(r *Rule, indent string) {
	p.print(indent, r.Selector.Raw, " {\n")
	for _, d := range r.Declarations {
		p.print(indent, "  ", d.Property, ": ", d.Value, ";\n")
	}
	p.print(indent, "}\n")
}

func (p *printer) media(mb *MediaBlock) {
	p.print("@media ", mb.Query, " {\n")
	for i := range mb.Rules {
		if i > 0 {
			p.print("\n")
		}
		p.rule(&mb.Rules[i], "  ")
	}
	p.print("}\n")
}

// WriteTo pretty prints stylesheet to w with blank line between items,
// implementing io.WriterTo.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	p := &printer{w: bufio.NewWriter(w)}
	for i, item := range s.Items {
		if i > 0 {
			p.print("\n")
		}
		switch {
		case item.Rule != nil:
			p.rule(item.Rule, "")
		case item.MediaBlock != nil:
			p.media(item.MediaBlock)
		}
	}
	if p.err == nil {
		p.err = p.w.Flush()
	}
	return p.cnt, p.err
}

func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}
