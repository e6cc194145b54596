package atom

import (
	"slices"
	"strings"
)

// Styler is anything composition accepts: *Atom or *Composed.
type Styler interface {
	String() string
	// collect walks atoms last to first keeping the first atom met for
	// each identity.
	collect(seen map[string]struct{}, out []*Atom) []*Atom
}

func (a *Atom) collect(seen map[string]struct{}, out []*Atom) []*Atom {
	if a == nil {
		return out
	}
	if _, ok := seen[a.id]; ok {
		return out
	}
	seen[a.id] = struct{}{}
	return append(out, a)
}

// Composed is ordered list of atoms with distinct identities.
type Composed struct {
	atoms     []*Atom
	className string
	memoized  bool
}

func (c *Composed) collect(seen map[string]struct{}, out []*Atom) []*Atom {
	if c == nil {
		return out
	}
	for i := len(c.atoms) - 1; i >= 0; i-- {
		out = c.atoms[i].collect(seen, out)
	}
	return out
}

// Atoms returns composed atoms in authoring order.
func (c *Composed) Atoms() []*Atom {
	if c == nil {
		return nil
	}
	return slices.Clone(c.atoms)
}

// Len returns number of composed atoms.
func (c *Composed) Len() int {
	if c == nil {
		return 0
	}
	return len(c.atoms)
}

// String returns space separated class names of composed atoms realizing
// them as necessary. Result is computed once.
func (c *Composed) String() string {
	if c == nil {
		return ""
	}
	if c.memoized {
		return c.className
	}
	names := make([]string, 0, len(c.atoms))
	for _, a := range c.atoms {
		names = append(names, a.String())
	}
	c.className = strings.Join(names, " ")
	c.memoized = true
	return c.className
}

// Compose flattens atoms and composed atoms into single composed atom. Later
// items override earlier ones with the same identity, so only the last
// specified atom for an identity survives. Nil items are skipped.
func Compose(items ...Styler) *Composed {
	seen := make(map[string]struct{})
	var kept []*Atom
	for i := len(items) - 1; i >= 0; i-- {
		if items[i] == nil {
			continue
		}
		kept = items[i].collect(seen, kept)
	}
	// collected last to first, report in authoring order
	slices.Reverse(kept)
	return &Composed{atoms: kept}
}

// When returns s if cond is true and nil otherwise, for conditional styles:
//
//	atom.Compose(base, atom.When(active, highlight))
func When(cond bool, s Styler) Styler {
	if !cond {
		return nil
	}
	return s
}
