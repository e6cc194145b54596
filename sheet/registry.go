package sheet

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"atomcss/css"
)

const (
	markerPrefix = "/* ATOMCSS"
	markerSuffix = " */"
)

// Marker returns comment line which precedes sheet text in extracted styles.
func Marker(screen string) string {
	if screen == "" {
		return markerPrefix + markerSuffix
	}
	return markerPrefix + ":" + screen + markerSuffix
}

// Option configures Registry.
type Option func(*Registry)

// WithFactory sets the function used to create sheets.
func WithFactory(f Factory) Option {
	return func(r *Registry) {
		if f != nil {
			r.factory = f
		}
	}
}

// Registry holds the default sheet and a sheet per screen.
// NOTE: not to be used concurrently!
type Registry struct {
	log     *zap.Logger
	factory Factory
	order   []string // screens in registration order, default sheet excluded
	sheets  map[string]Sheet
}

// New creates registry with default sheet and sheets for all screens.
func New(log *zap.Logger, screens []string, options ...Option) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{
		log:     log.Named("sheets"),
		factory: NewMemory,
		sheets:  make(map[string]Sheet, len(screens)+1),
	}
	for _, opt := range options {
		opt(r)
	}
	r.sheets[""] = r.factory("")
	for _, name := range screens {
		r.ensure(name)
	}
	return r
}

func (r *Registry) ensure(screen string) Sheet {
	if s, ok := r.sheets[screen]; ok {
		return s
	}
	s := r.factory(screen)
	r.sheets[screen] = s
	r.order = append(r.order, screen)
	return s
}

// Add creates sheet for screen unless it exists already.
func (r *Registry) Add(screen string) {
	r.ensure(screen)
}

// Screens returns names of screen sheets in registration order.
func (r *Registry) Screens() []string {
	return append([]string(nil), r.order...)
}

// Sheet returns sheet for screen if one exists.
func (r *Registry) Sheet(screen string) (Sheet, bool) {
	s, ok := r.sheets[screen]
	return s, ok
}

// Insert appends rule text to sheet for screen, creating the sheet when
// screen was never seen before.
func (r *Registry) Insert(screen, rule string) {
	r.ensure(screen).Insert(rule)
}

// RuleCount returns number of rules in the sheet for screen.
func (r *Registry) RuleCount(screen string) (int, error) {
	s, ok := r.sheets[screen]
	if !ok {
		return 0, fmt.Errorf("no sheet for screen %q", screen)
	}
	return s.RuleCount()
}

// Offset returns total number of rules in all sheets. Sheets which cannot
// report their size count as empty.
func (r *Registry) Offset() int {
	total := 0
	for _, screen := range r.all() {
		n, err := r.sheets[screen].RuleCount()
		if err != nil {
			r.log.Debug("Unable to read rule count, assuming empty sheet", zap.String("screen", screen), zap.Error(err))
			continue
		}
		total += n
	}
	return total
}

func (r *Registry) all() []string {
	return append([]string{""}, r.order...)
}

// Styles returns text of every sheet, default one first, each preceded by
// its marker comment.
func (r *Registry) Styles() []string {
	styles := make([]string, 0, len(r.order)+1)
	for _, screen := range r.all() {
		styles = append(styles, Marker(screen)+"\n"+r.sheets[screen].Content())
	}
	return styles
}

// WriteTo writes extracted styles to w, implementing io.WriterTo.
func (r *Registry) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, s := range r.Styles() {
		n, err := io.WriteString(w, s+"\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Part is text of a single sheet found in extracted styles.
type Part struct {
	Screen string
	Text   string
}

// Split breaks extracted styles into per screen text using marker comments.
// Text before the first marker belongs to the default sheet. Parts are
// returned in order of first appearance.
func Split(data []byte) []Part {
	var (
		parts  []Part
		index  = make(map[string]int)
		screen string
		sb     strings.Builder
	)
	flush := func(keepEmpty bool) {
		text := strings.TrimSpace(sb.String())
		sb.Reset()
		if text == "" && !keepEmpty {
			return
		}
		if i, ok := index[screen]; ok {
			parts[i].Text += text
			return
		}
		index[screen] = len(parts)
		parts = append(parts, Part{Screen: screen, Text: text})
	}
	seen := false
	for line := range strings.Lines(string(data)) {
		trimmed := strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(trimmed, markerPrefix); ok && strings.HasSuffix(rest, markerSuffix) {
			flush(seen)
			screen = strings.TrimPrefix(strings.TrimSuffix(rest, markerSuffix), ":")
			seen = true
			continue
		}
		sb.WriteString(line)
	}
	flush(seen)
	return parts
}

// Load seeds sheets with previously extracted styles so rule numbering
// continues where previous run stopped. Only sheets created by NewMemory
// can be seeded.
func (r *Registry) Load(data []byte, p *css.Parser) error {
	if p == nil {
		p = css.NewParser(r.log)
	}
	for _, part := range Split(data) {
		m, ok := r.ensure(part.Screen).(*Memory)
		if !ok {
			return fmt.Errorf("sheet for screen %q cannot be seeded", part.Screen)
		}
		stylesheet := p.Parse([]byte(part.Text), Marker(part.Screen))
		m.Seed(part.Text, stylesheet.RuleCount())
		r.log.Debug("Sheet seeded", zap.String("screen", part.Screen), zap.Int("rules", stylesheet.RuleCount()), zap.Int("warnings", len(stylesheet.Warnings)))
	}
	return nil
}
