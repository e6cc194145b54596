package atom

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// State is either Pending or Realized.
type State interface {
	state()
}

// Pending holds everything needed to produce CSS rule for an atom which was
// never used as text.
type Pending struct {
	PropertyParts []string // lower-cased camelCase parts of property name
	Value         string   // value after token substitution
	Pseudo        string   // canonical pseudo selectors, may be empty
	Screen        string   // screen name, empty for default sheet
}

// Realized is terminal state of an atom: its rule has been inserted.
type Realized struct {
	ClassName string
}

func (Pending) state()  {}
func (Realized) state() {}

// Atom is single property/value pair scoped by optional pseudo selectors and
// screen. Atoms are created by Engine.Resolve and must not be copied.
type Atom struct {
	id     string
	key    string
	engine *Engine
	state  State
}

// ID returns identity used for override comparison. Atoms with equal ID
// override each other regardless of value.
func (a *Atom) ID() string {
	return a.id
}

// Key returns cache key: identity and value.
func (a *Atom) Key() string {
	return a.key
}

// State returns current state of the atom.
func (a *Atom) State() State {
	return a.state
}

// IsRealized tells if atom rule has been inserted already.
func (a *Atom) IsRealized() bool {
	_, ok := a.state.(Realized)
	return ok
}

// String returns class name of the atom. First call realizes pending atom:
// inserts its rule into the owning engine sheets and assigns class name.
func (a *Atom) String() string {
	if a == nil {
		return ""
	}
	switch s := a.state.(type) {
	case Realized:
		return s.ClassName
	case Pending:
		r := a.engine.realize(s)
		a.state = r
		return r.ClassName
	default:
		// this should never happen
		panic("atom in unknown state")
	}
}

// realize consumes pending atom producing realized one. It draws next
// sequence number, builds and inserts the rule.
func (e *Engine) realize(p Pending) Realized {
	seq := e.seq
	e.seq++

	className := e.className(seq, p)

	var rule strings.Builder
	rule.WriteByte('.')
	rule.WriteString(className)
	rule.WriteString(p.Pseudo)
	rule.WriteByte('{')
	rule.WriteString(strings.Join(p.PropertyParts, "-"))
	rule.WriteByte(':')
	rule.WriteString(p.Value)
	rule.WriteString(";}")

	text := rule.String()
	if p.Screen != "" {
		if wrap, ok := e.wrappers[p.Screen]; ok {
			text = wrap(text)
		} else {
			e.log.Warn("No wrapper for screen, inserting rule as is", zap.String("screen", p.Screen), zap.String("class", className))
		}
	}
	e.sheets.Insert(p.Screen, text)

	e.log.Debug("Atom realized", zap.String("class", className), zap.String("rule", text))
	return Realized{ClassName: className}
}

// className builds "[prefix_][screen_]initials_seq".
func (e *Engine) className(seq int, p Pending) string {
	var sb strings.Builder
	sb.WriteString(e.classPrefix)
	if p.Screen != "" {
		sb.WriteString(p.Screen)
		sb.WriteByte('_')
	}
	sb.WriteString(initials(p.PropertyParts))
	sb.WriteByte('_')
	sb.WriteString(strconv.Itoa(seq))
	return sb.String()
}
