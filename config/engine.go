package config

import (
	"fmt"

	"go.uber.org/zap"

	"atomcss/atom"
	"atomcss/dispatch"
	"atomcss/sheet"
)

// validate checks what validation tags cannot express.
func (conf *EngineConfig) validate() error {
	for _, s := range conf.Screens {
		if dispatch.Reserved(s.Name) {
			return fmt.Errorf("screen name %q is reserved for utility or selector", s.Name)
		}
	}
	return nil
}

// ScreenNames returns configured screen names in configuration order.
func (conf *EngineConfig) ScreenNames() []string {
	names := make([]string, 0, len(conf.Screens))
	for _, s := range conf.Screens {
		names = append(names, s.Name)
	}
	return names
}

// Options converts engine configuration into atom engine options. Screens
// without query are registered without wrapper, their rules are not wrapped.
func (conf *EngineConfig) Options(sheets *sheet.Registry, log *zap.Logger) atom.Options {
	opts := atom.Options{
		Prefix: conf.Prefix,
		Sheets: sheets,
		Log:    log,
	}
	for _, s := range conf.Screens {
		screen := atom.Screen{Name: s.Name}
		if len(s.Query) > 0 {
			screen.Wrap = atom.MediaQuery(s.Query)
		}
		opts.Screens = append(opts.Screens, screen)
	}
	if len(conf.Tokens) > 0 {
		opts.Tokens = make(atom.Tokens, len(conf.Tokens))
		for group, aliases := range conf.Tokens {
			opts.Tokens[group] = aliases
		}
	}
	return opts
}
