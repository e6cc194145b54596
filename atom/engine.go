// Package atom reduces style requests to atoms: deduplicated, lazily
// realized atomic CSS rules with stable sequence derived class names.
//
// Nothing in this package is safe for concurrent use. An Engine and
// everything it creates must be used from a single goroutine.
package atom

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"atomcss/reload"
	"atomcss/sheet"
)

// WrapFunc wraps rule text for a screen, for example into @media block.
type WrapFunc func(rule string) string

// MediaQuery returns WrapFunc producing "@media <query>{<rule>}".
func MediaQuery(query string) WrapFunc {
	return func(rule string) string {
		return "@media " + query + "{" + rule + "}"
	}
}

// Screen is named responsive scope.
type Screen struct {
	Name string
	Wrap WrapFunc
}

// Options defines engine instance.
type Options struct {
	// Prefix is prepended to every class name and identifies instance for
	// hot reloading.
	Prefix  string
	Screens []Screen
	Tokens  Tokens
	// Sheets receives rules. When nil engine creates in-memory sheets for
	// default and all configured screens. Sharing sheets between engines
	// continues numbering from the number of rules they already hold.
	Sheets *sheet.Registry
	Log    *zap.Logger
}

// Engine creates, caches and realizes atoms.
type Engine struct {
	log         *zap.Logger
	prefix      string
	classPrefix string
	screens     []string
	wrappers    map[string]WrapFunc
	tokens      Tokens
	sheets      *sheet.Registry
	cache       map[string]*Atom
	seq         int
}

// New constructs engine. Sequence of class names starts after number of
// rules already present in sheets.
func New(opts Options) *Engine {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	e := &Engine{
		log:      log.Named("engine"),
		prefix:   opts.Prefix,
		wrappers: make(map[string]WrapFunc, len(opts.Screens)),
		tokens:   opts.Tokens,
		sheets:   opts.Sheets,
		cache:    make(map[string]*Atom),
	}
	if e.prefix != "" {
		e.classPrefix = e.prefix + "_"
	}
	for _, s := range opts.Screens {
		e.screens = append(e.screens, s.Name)
		if s.Wrap != nil {
			e.wrappers[s.Name] = s.Wrap
		}
	}
	if e.sheets == nil {
		e.sheets = sheet.New(log, e.screens)
	} else {
		// make sure every screen has a sheet so extraction order follows configuration
		for _, name := range e.screens {
			e.sheets.Add(name)
		}
	}
	e.seq = e.sheets.Offset()

	e.log.Debug("Engine created", zap.String("prefix", e.prefix), zap.Strings("screens", e.screens), zap.Int("sequence", e.seq))
	return e
}

// Obtain returns engine registered under opts.Prefix or constructs and
// registers a new one. With nil registry it always constructs.
func Obtain(reg *reload.Registry[*Engine], opts Options) *Engine {
	if reg == nil {
		return New(opts)
	}
	if e, ok := reg.Lookup(opts.Prefix); ok {
		e.log.Debug("Reusing engine", zap.String("prefix", opts.Prefix))
		return e
	}
	e := New(opts)
	reg.Register(opts.Prefix, e)
	return e
}

// Prefix returns configured class name prefix.
func (e *Engine) Prefix() string {
	return e.prefix
}

// HasScreen tells if screen is configured.
func (e *Engine) HasScreen(name string) bool {
	return slices.Contains(e.screens, name)
}

// Screens returns configured screen names in configuration order.
func (e *Engine) Screens() []string {
	return append([]string(nil), e.screens...)
}

// Sheets returns registry rules are inserted into.
func (e *Engine) Sheets() *sheet.Registry {
	return e.sheets
}

// Styles returns extracted text of all sheets.
func (e *Engine) Styles() []string {
	return e.sheets.Styles()
}

// Resolve returns atom for property (camelCase, e.g. "backgroundColor"),
// value, pseudo selectors (e.g. ":hover:focus") and screen name. The same
// combination always returns the same atom. Nothing is inserted into sheets
// until atom is used as text.
func (e *Engine) Resolve(property string, value any, pseudo, screen string) *Atom {
	pseudo = canonicalPseudo(pseudo)
	id := identity(property, pseudo, screen)
	resolved := e.tokens.lookup(property, formatValue(value))
	key := id + resolved

	if a, ok := e.cache[key]; ok {
		return a
	}

	a := &Atom{
		id:     id,
		key:    key,
		engine: e,
		state: Pending{
			PropertyParts: splitProperty(property),
			Value:         resolved,
			Pseudo:        pseudo,
			Screen:        screen,
		},
	}
	e.cache[key] = a
	return a
}

// CacheSize returns number of distinct atoms created so far.
func (e *Engine) CacheSize() int {
	return len(e.cache)
}

// Atoms returns every cached atom ordered by cache key.
func (e *Engine) Atoms() []*Atom {
	keys := slices.Sorted(maps.Keys(e.cache))
	atoms := make([]*Atom, 0, len(keys))
	for _, k := range keys {
		atoms = append(atoms, e.cache[k])
	}
	return atoms
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
