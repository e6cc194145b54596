package build

import (
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"atomcss/atom"
	"atomcss/common"
	"atomcss/dispatch"
)

// Result maps style names to generated class names.
type Result struct {
	Names   []string // in recipe order
	Classes map[string]string
}

// Generate resolves every rule of the recipe and composes named styles. When
// any rule fails nothing is realized and all errors are returned together,
// so failed recipe never adds rules to sheets.
func Generate(d *dispatch.Dispatcher, r *Recipe, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var errs error
	styles := make(map[string]*atom.Composed, len(r.Styles))
	for _, s := range r.Styles {
		items, err := styleItems(d, s, styles)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		styles[s.Name] = atom.Compose(items...)
	}
	if errs != nil {
		log.Debug("Recipe has errors, nothing realized", zap.Int("errors", len(multierr.Errors(errs))))
		return nil, errs
	}

	res := &Result{
		Names:   make([]string, 0, len(r.Styles)),
		Classes: make(map[string]string, len(r.Styles)),
	}
	for _, s := range r.Styles {
		c := styles[s.Name]
		res.Names = append(res.Names, s.Name)
		res.Classes[s.Name] = c.String()
		log.Debug("Style generated", zap.String("style", s.Name), zap.Int("atoms", c.Len()), zap.String("class", res.Classes[s.Name]))
	}
	return res, nil
}

func styleItems(d *dispatch.Dispatcher, s Style, styles map[string]*atom.Composed) ([]atom.Styler, error) {
	var errs error
	items := make([]atom.Styler, 0, len(s.Compose)+len(s.Rules))
	for _, ref := range s.Compose {
		c, ok := styles[ref]
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("style %q: referenced style %q is unknown, failed or defined later", s.Name, ref))
			continue
		}
		items = append(items, c)
	}
	for i, rule := range s.Rules {
		st, err := d.Style(rule.Expr, rule.Args...)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("style %q rule %d (%s): %w", s.Name, i, rule.Expr, err))
			continue
		}
		items = append(items, st)
	}
	return items, errs
}

// WriteMap writes class map in requested format. Keys are sorted.
func (r *Result) WriteMap(w io.Writer, format common.MapFormat) error {
	switch format {
	case common.MapFormatJson:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r.Classes); err != nil {
			return fmt.Errorf("unable to encode class map: %w", err)
		}
	case common.MapFormatYaml:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r.Classes); err != nil {
			return fmt.Errorf("unable to encode class map: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("unable to encode class map: %w", err)
		}
	default:
		return fmt.Errorf("unsupported class map format %s", format)
	}
	return nil
}
