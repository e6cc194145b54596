// Package dispatch maps names used in style expressions to CSS properties,
// utilities and screens and invokes them against an atom engine.
//
// Expression is a dotted path: optional screen and "override" selectors
// followed by property or utility name, for example "md.backgroundColor" or
// "override.marginX". Arguments are value and optional pseudo selectors.
package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"atomcss/atom"
)

var (
	ErrUnknownProperty = errors.New("property is not available")
	ErrMissingValue    = errors.New("missing value")
	ErrBadPseudo       = errors.New("pseudo selector must be a string")
	ErrIncomplete      = errors.New("incomplete expression")
)

// overrideName lets utility-first configuration use plain properties.
const overrideName = "override"

// Kind tells what name in expression refers to.
type Kind int

const (
	KindUnknown Kind = iota
	KindProperty
	KindUtility
	KindScreen
	KindOverride
)

func (k Kind) String() string {
	switch k {
	case KindProperty:
		return "property"
	case KindUtility:
		return "utility"
	case KindScreen:
		return "screen"
	case KindOverride:
		return "override"
	default:
		return "unknown"
	}
}

// Target is result of name lookup.
type Target struct {
	Kind    Kind
	Name    string
	Utility Utility // set for KindUtility only
}

// Utility expands arguments into styles. It receives call context with
// screen selected before the utility, nested expressions resolved through
// it treat utility names as plain properties.
type Utility func(c Call, args ...any) (atom.Styler, error)

// Options configures Dispatcher.
type Options struct {
	// UtilityFirst rejects names which are neither utilities nor screens
	// unless used after "override" or inside a utility.
	UtilityFirst bool
	// Utils are added to default utilities, replacing defaults with the
	// same name.
	Utils map[string]Utility
	Log   *zap.Logger
}

// Dispatcher resolves style expressions. Not safe for concurrent use.
type Dispatcher struct {
	log          *zap.Logger
	engine       *atom.Engine
	utils        map[string]Utility
	utilityFirst bool
}

// New creates dispatcher for engine.
func New(engine *atom.Engine, opts Options) *Dispatcher {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		log:          log.Named("dispatch"),
		engine:       engine,
		utils:        DefaultUtils(),
		utilityFirst: opts.UtilityFirst,
	}
	for name, u := range opts.Utils {
		d.utils[name] = u
	}
	return d
}

// Engine returns engine atoms are resolved with.
func (d *Dispatcher) Engine() *atom.Engine {
	return d.engine
}

// Call returns fresh top-level call context: no screen, no override.
func (d *Dispatcher) Call() Call {
	return Call{d: d}
}

// Style resolves expression in a fresh call context, so screen selection
// never leaks from one top-level call into the next.
func (d *Dispatcher) Style(expr string, args ...any) (atom.Styler, error) {
	return d.Call().Style(expr, args...)
}

// Styles returns extracted text of all engine sheets.
func (d *Dispatcher) Styles() []string {
	return d.engine.Styles()
}

// Call is resolution context for a single expression. It is passed by value,
// so changes made while resolving one expression are never seen by another.
type Call struct {
	d         *Dispatcher
	screen    string
	inUtility bool
	override  bool
}

// Screen returns selected screen.
func (c Call) Screen() string {
	return c.screen
}

// InUtility tells if call is made on behalf of a utility.
func (c Call) InUtility() bool {
	return c.inUtility
}

// Engine returns engine atoms are resolved with.
func (c Call) Engine() *atom.Engine {
	return c.d.engine
}

// Lookup classifies name in this call context.
func (c Call) Lookup(name string) Target {
	if name == overrideName && c.d.utilityFirst {
		return Target{Kind: KindOverride, Name: name}
	}
	if c.d.engine.HasScreen(name) {
		return Target{Kind: KindScreen, Name: name}
	}
	if !c.inUtility {
		if u, ok := c.d.utils[name]; ok {
			return Target{Kind: KindUtility, Name: name, Utility: u}
		}
	}
	if c.d.utilityFirst && !c.inUtility && !c.override {
		return Target{Kind: KindUnknown, Name: name}
	}
	return Target{Kind: KindProperty, Name: name}
}

// Style resolves expression with arguments. Errors abort this expression
// only, no rule is ever inserted on behalf of a failed expression.
func (c Call) Style(expr string, args ...any) (atom.Styler, error) {
	if expr == "" {
		return nil, fmt.Errorf("%w: empty", ErrIncomplete)
	}
	names := strings.Split(expr, ".")
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%w: empty name in %q", ErrIncomplete, expr)
		}
		last := i == len(names)-1
		t := c.Lookup(name)

		switch t.Kind {
		case KindScreen:
			c.screen = name
		case KindOverride:
			c.override = true
		case KindUnknown:
			c.d.log.Debug("Rejecting unknown property", zap.String("name", name), zap.String("expression", expr))
			return nil, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
		case KindUtility:
			if !last {
				return nil, fmt.Errorf("%w: utility %q must end expression %q", ErrIncomplete, name, expr)
			}
			inner := c
			inner.inUtility = true
			s, err := t.Utility(inner, args...)
			if err != nil {
				return nil, fmt.Errorf("utility %q: %w", name, err)
			}
			return s, nil
		case KindProperty:
			if !last {
				return nil, fmt.Errorf("%w: property %q must end expression %q", ErrIncomplete, name, expr)
			}
			return c.resolve(name, args)
		}
	}
	return nil, fmt.Errorf("%w: %q selects no property", ErrIncomplete, expr)
}

func (c Call) resolve(property string, args []any) (atom.Styler, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, fmt.Errorf("%w for %q", ErrMissingValue, property)
	}
	var pseudo string
	if len(args) > 1 && args[1] != nil {
		s, ok := args[1].(string)
		if !ok {
			return nil, fmt.Errorf("%w for %q, got %T", ErrBadPseudo, property, args[1])
		}
		pseudo = s
	}
	if len(args) > 2 {
		c.d.log.Debug("Ignoring extra arguments", zap.String("property", property), zap.Int("count", len(args)-2))
	}
	return c.d.engine.Resolve(property, args[0], pseudo, c.screen), nil
}
