package dispatch

import (
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"atomcss/atom"
)

func newDispatcher(t *testing.T, utilityFirst bool, utils map[string]Utility) *Dispatcher {
	t.Helper()
	log := zaptest.NewLogger(t)
	e := atom.New(atom.Options{
		Prefix: "di",
		Screens: []atom.Screen{
			{Name: "md", Wrap: atom.MediaQuery("(min-width: 768px)")},
			{Name: "lg", Wrap: atom.MediaQuery("(min-width: 1024px)")},
		},
		Log: log,
	})
	return New(e, Options{UtilityFirst: utilityFirst, Utils: utils, Log: log})
}

func mustStyle(t *testing.T, d *Dispatcher, expr string, args ...any) atom.Styler {
	t.Helper()
	s, err := d.Style(expr, args...)
	if err != nil {
		t.Fatalf("Style(%q) error = %v", expr, err)
	}
	return s
}

func TestLookup(t *testing.T) {
	d := newDispatcher(t, false, nil)
	c := d.Call()

	tests := []struct {
		name string
		want Kind
	}{
		{"md", KindScreen},
		{"marginX", KindUtility},
		{"color", KindProperty},
		{"override", KindProperty}, // only special in utility-first mode
	}
	for _, tt := range tests {
		if got := c.Lookup(tt.name); got.Kind != tt.want {
			t.Errorf("Lookup(%q) = %v, want %v", tt.name, got.Kind, tt.want)
		}
	}

	inner := c
	inner.inUtility = true
	if got := inner.Lookup("marginX"); got.Kind != KindProperty {
		t.Errorf("utility names inside utility must be properties, got %v", got.Kind)
	}
}

func TestLookup_UtilityFirst(t *testing.T) {
	d := newDispatcher(t, true, nil)
	c := d.Call()

	if got := c.Lookup("color"); got.Kind != KindUnknown {
		t.Errorf("Lookup(color) = %v, want unknown", got.Kind)
	}
	if got := c.Lookup("override"); got.Kind != KindOverride {
		t.Errorf("Lookup(override) = %v, want override", got.Kind)
	}
	if got := c.Lookup("paddingY"); got.Kind != KindUtility || got.Utility == nil {
		t.Errorf("Lookup(paddingY) = %v, want utility", got.Kind)
	}
}

func TestStyle_Property(t *testing.T) {
	d := newDispatcher(t, false, nil)

	s := mustStyle(t, d, "backgroundColor", "red")
	if s.String() != "di_bc_0" {
		t.Errorf("String() = %q", s.String())
	}
	if again := mustStyle(t, d, "backgroundColor", "red"); again != s {
		t.Error("same expression must return the same atom")
	}

	hover := mustStyle(t, d, "color", "red", ":hover")
	if a := hover.(*atom.Atom); a.ID() != "color:hover" {
		t.Errorf("ID() = %q", a.ID())
	}
}

func TestStyle_ScreenResetsAfterTopLevelCall(t *testing.T) {
	d := newDispatcher(t, false, nil)

	md := mustStyle(t, d, "md.color", "red").(*atom.Atom)
	plain := mustStyle(t, d, "color", "red").(*atom.Atom)

	if md.ID() != "colormd" {
		t.Errorf("screen atom ID() = %q", md.ID())
	}
	if plain.ID() != "color" {
		t.Errorf("screen must not leak into next call, ID() = %q", plain.ID())
	}
	// last screen selector wins
	if lg := mustStyle(t, d, "md.lg.color", "red").(*atom.Atom); lg.ID() != "colorlg" {
		t.Errorf("ID() = %q", lg.ID())
	}
}

func TestStyle_UtilityKeepsScreen(t *testing.T) {
	d := newDispatcher(t, false, nil)

	s := mustStyle(t, d, "md.marginX", "4px")
	c, ok := s.(*atom.Composed)
	if !ok {
		t.Fatalf("utility result = %T, want *atom.Composed", s)
	}
	atoms := c.Atoms()
	if len(atoms) != 2 {
		t.Fatalf("expected 2 atoms, got %d", len(atoms))
	}
	for _, a := range atoms {
		if got := a.ID(); got != "marginleftmd" && got != "marginrightmd" {
			t.Errorf("atom must inherit screen, ID() = %q", got)
		}
	}
	if got := c.String(); got != "di_md_ml_0 di_md_mr_1" {
		t.Errorf("String() = %q", got)
	}
}

func TestStyle_CustomUtility(t *testing.T) {
	var seen []bool
	utils := map[string]Utility{
		"truncate": func(c Call, args ...any) (atom.Styler, error) {
			seen = append(seen, c.InUtility())
			// utility names are plain properties here
			a, err := c.Style("marginX", args...)
			if err != nil {
				return nil, err
			}
			b, err := c.Style("overflow", "hidden")
			if err != nil {
				return nil, err
			}
			return atom.Compose(a, b), nil
		},
	}
	d := newDispatcher(t, true, utils)

	s := mustStyle(t, d, "truncate", "1")
	if len(seen) != 1 || !seen[0] {
		t.Errorf("utility must see inside-utility call context, got %v", seen)
	}
	c := s.(*atom.Composed)
	if c.Len() != 2 || c.Atoms()[0].ID() != "marginx" {
		t.Errorf("unexpected atoms %v", c.Atoms())
	}
}

func TestStyle_UtilityFirst(t *testing.T) {
	d := newDispatcher(t, true, nil)

	_, err := d.Style("color", "red")
	if !errors.Is(err, ErrUnknownProperty) {
		t.Fatalf("Style(color) error = %v, want ErrUnknownProperty", err)
	}
	if n := d.Engine().CacheSize(); n != 0 {
		t.Errorf("failed call must not create atoms, cache size %d", n)
	}

	// failure is fatal to the call only
	if _, err := d.Style("paddingY", "2px"); err != nil {
		t.Errorf("Style(paddingY) error = %v", err)
	}
	if _, err := d.Style("override.color", "red"); err != nil {
		t.Errorf("Style(override.color) error = %v", err)
	}
	if _, err := d.Style("md.override.color", "red"); err != nil {
		t.Errorf("Style(md.override.color) error = %v", err)
	}
	// override does not survive into next call
	if _, err := d.Style("color", "red"); !errors.Is(err, ErrUnknownProperty) {
		t.Errorf("override leaked into next call, error = %v", err)
	}
}

func TestStyle_Errors(t *testing.T) {
	d := newDispatcher(t, false, nil)

	tests := []struct {
		name string
		expr string
		args []any
		want error
	}{
		{"empty", "", []any{"red"}, ErrIncomplete},
		{"empty segment", "md..color", []any{"red"}, ErrIncomplete},
		{"screen only", "md", []any{"red"}, ErrIncomplete},
		{"property not last", "color.md", []any{"red"}, ErrIncomplete},
		{"utility not last", "marginX.color", []any{"red"}, ErrIncomplete},
		{"missing value", "color", nil, ErrMissingValue},
		{"nil value", "color", []any{nil}, ErrMissingValue},
		{"bad pseudo", "color", []any{"red", 42}, ErrBadPseudo},
		{"utility error", "marginY", nil, ErrMissingValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := d.Style(tt.expr, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("Style(%q) error = %v, want %v", tt.expr, err, tt.want)
			}
			if s != nil {
				t.Errorf("Style(%q) must not return styles on error, got %v", tt.expr, s)
			}
		})
	}
}

func TestDispatcher_Styles(t *testing.T) {
	d := newDispatcher(t, false, nil)
	_ = mustStyle(t, d, "lg.color", "red").String()

	styles := d.Styles()
	if len(styles) != 3 {
		t.Fatalf("expected default and two screen sheets, got %d", len(styles))
	}
	if want := "/* ATOMCSS:lg */\n@media (min-width: 1024px){.di_lg_c_0{color:red;}}"; styles[2] != want {
		t.Errorf("styles[2] = %q, want %q", styles[2], want)
	}
}

func TestReserved(t *testing.T) {
	for name, want := range map[string]bool{"override": true, "marginX": true, "size": true, "md": false, "color": false} {
		if got := Reserved(name); got != want {
			t.Errorf("Reserved(%q) = %v, want %v", name, got, want)
		}
	}
}
