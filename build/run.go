// Package build generates atomic stylesheet and class map from a recipe.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"atomcss/atom"
	"atomcss/css"
	"atomcss/dispatch"
	"atomcss/sheet"
	"atomcss/sheet/store"
	"atomcss/state"
	"atomcss/utils/debug"
)

// Options are command line parameters of build and watch.
type Options struct {
	Src       string // recipe file
	Dst       string // destination directory
	Seed      string // previous extraction to continue numbering from
	Store     string // sqlite sheet store
	Overwrite bool
}

func optionsFromCommand(cmd *cli.Command, log *zap.Logger) (Options, error) {
	var (
		opts Options
		err  error
	)

	opts.Src = cmd.Args().Get(0)
	if len(opts.Src) == 0 {
		return opts, errors.New("no recipe has been specified")
	}
	if opts.Src, err = filepath.Abs(opts.Src); err != nil {
		return opts, err
	}

	opts.Dst = cmd.Args().Get(1)
	if len(opts.Dst) == 0 {
		if opts.Dst, err = os.Getwd(); err != nil {
			return opts, fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if opts.Dst, err = filepath.Abs(opts.Dst); err != nil {
		return opts, err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	opts.Seed, opts.Store = cmd.String("seed"), cmd.String("store")
	if len(opts.Seed) > 0 && len(opts.Store) > 0 {
		return opts, errors.New("seed and store cannot be used together, store already keeps previous rules")
	}
	if len(opts.Seed) > 0 {
		if opts.Seed, err = filepath.Abs(opts.Seed); err != nil {
			return opts, err
		}
	}
	opts.Overwrite = cmd.Bool("overwrite")
	return opts, nil
}

// Run is action of the build command.
func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Logger("build")

	opts, err := optionsFromCommand(cmd, log)
	if err != nil {
		return err
	}

	log.Info("Processing starting", zap.String("recipe", opts.Src), zap.String("destination", opts.Dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	b := newBuilder(env, opts, log)
	_, err = b.build(ctx)
	return multierr.Append(err, b.close())
}

// builder keeps resources which must outlive a single build in watch mode.
type builder struct {
	env    *state.LocalEnv
	log    *zap.Logger
	opts   Options
	parser *css.Parser
	store  *store.Store
	builds int
}

func newBuilder(env *state.LocalEnv, opts Options, log *zap.Logger) *builder {
	return &builder{
		env:    env,
		log:    log,
		opts:   opts,
		parser: css.NewParser(log),
	}
}

func (b *builder) close() error {
	if b.store == nil {
		return nil
	}
	err := b.store.Close()
	b.store = nil
	return err
}

// build processes recipe once. Engine for recipe prefix is taken from
// environment registry, so rebuilding continues numbering and reuses atoms.
func (b *builder) build(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.builds++

	cfg := b.env.Cfg
	recipe, data, err := LoadRecipe(b.opts.Src)
	if err != nil {
		return nil, err
	}
	b.env.Rpt.StoreData(fmt.Sprintf("recipe/%d-%s", b.builds, filepath.Base(b.opts.Src)), data)

	engineCfg := cfg.Engine
	if recipe.Prefix != "" {
		engineCfg.Prefix = recipe.Prefix
	}

	engine, ok := b.env.Engines.Lookup(engineCfg.Prefix)
	if !ok {
		sheets, err := b.prepareSheets(engineCfg.ScreenNames())
		if err != nil {
			return nil, err
		}
		engine = atom.Obtain(b.env.Engines, engineCfg.Options(sheets, b.env.Log))
	} else {
		b.log.Debug("Continuing with existing engine", zap.String("prefix", engineCfg.Prefix), zap.Int("atoms", engine.CacheSize()))
	}

	d := dispatch.New(engine, dispatch.Options{UtilityFirst: engineCfg.UtilityFirst, Log: b.env.Log})
	res, err := Generate(d, recipe, b.log)
	if err != nil {
		return nil, fmt.Errorf("recipe %q: %w", b.opts.Src, err)
	}
	if b.store != nil {
		if err := b.store.Err(); err != nil {
			return nil, err
		}
	}

	tw := debug.NewTreeWriter()
	tw.Engine(0, engine)
	b.env.Rpt.StoreData(fmt.Sprintf("engine/%d-%s.txt", b.builds, engineCfg.Prefix), []byte(tw.String()))

	if err := b.write(res, engine, engineCfg.Prefix); err != nil {
		return nil, err
	}
	return res, nil
}

// prepareSheets creates sheets for a new engine: from sheet store when
// requested, otherwise in memory, seeded with previous extraction if any.
func (b *builder) prepareSheets(screens []string) (*sheet.Registry, error) {
	if len(b.opts.Store) > 0 {
		if b.store == nil {
			st, err := store.Open(b.opts.Store, b.env.Log)
			if err != nil {
				return nil, err
			}
			b.store = st
		}
		stored, err := b.store.Screens()
		if err != nil {
			return nil, err
		}
		// configured screens first, then ones only present in the store
		for _, s := range stored {
			if !slices.Contains(screens, s) {
				screens = append(screens, s)
			}
		}
		return sheet.New(b.env.Log, screens, sheet.WithFactory(b.store.Factory())), nil
	}

	sheets := sheet.New(b.env.Log, screens)
	if len(b.opts.Seed) == 0 {
		return sheets, nil
	}
	data, err := os.ReadFile(b.opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("unable to read seed: %w", err)
	}
	if err := b.env.Rpt.StoreCopy("seed/"+filepath.Base(b.opts.Seed), b.opts.Seed); err != nil {
		b.log.Debug("Unable to store seed in report", zap.Error(err))
	}
	if err := sheets.Load(data, b.parser); err != nil {
		return nil, fmt.Errorf("unable to load seed %q: %w", b.opts.Seed, err)
	}
	b.log.Info("Continuing numbering from seed", zap.String("seed", b.opts.Seed), zap.Int("rules", sheets.Offset()))
	return sheets, nil
}

func (b *builder) write(res *Result, engine *atom.Engine, prefix string) error {
	out := &b.env.Cfg.Output
	name, err := outputBaseName(out, b.opts.Src, prefix, out.MapFormat)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(b.opts.Dst, 0755); err != nil {
		return fmt.Errorf("unable to create destination directory: %w", err)
	}

	cssPath := filepath.Join(b.opts.Dst, name+".css")
	mapPath := filepath.Join(b.opts.Dst, name+out.MapFormat.Ext())

	if mapPath == b.opts.Src || cssPath == b.opts.Src {
		return fmt.Errorf("output file would overwrite recipe: %s", b.opts.Src)
	}

	// seed is normally previous output, first build is allowed to replace it
	for _, path := range []string{cssPath, mapPath} {
		if b.builds > 1 || path == b.opts.Seed {
			continue
		}
		if _, err := os.Stat(path); err == nil && !b.opts.Overwrite {
			return fmt.Errorf("output file already exists: %s", path)
		}
	}

	if err := writeFile(cssPath, func(w io.Writer) error {
		return writeStyles(w, engine.Sheets(), out.PrettyPrint, b.parser)
	}); err != nil {
		return err
	}
	if err := writeFile(mapPath, func(w io.Writer) error {
		return res.WriteMap(w, out.MapFormat)
	}); err != nil {
		return err
	}
	b.env.Rpt.Store("output/"+filepath.Base(cssPath), cssPath)
	b.env.Rpt.Store("output/"+filepath.Base(mapPath), mapPath)

	b.log.Info("Output written", zap.String("stylesheet", cssPath), zap.String("classes", mapPath), zap.Int("styles", len(res.Names)))
	return nil
}

func writeFile(path string, fn func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer func() {
		if e := f.Close(); e != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close output file: %w", e))
		}
	}()
	if err := fn(f); err != nil {
		return fmt.Errorf("unable to write %s: %w", path, err)
	}
	return nil
}

// writeStyles writes extraction text of all sheets. Pretty printed output
// keeps marker comments, so it could be used as seed as well.
func writeStyles(w io.Writer, reg *sheet.Registry, pretty bool, p *css.Parser) error {
	if !pretty {
		_, err := reg.WriteTo(w)
		return err
	}
	for _, screen := range append([]string{""}, reg.Screens()...) {
		s, _ := reg.Sheet(screen)
		ss := p.Parse([]byte(s.Content()), sheet.Marker(screen))
		if _, err := fmt.Fprintf(w, "%s\n%s\n", sheet.Marker(screen), ss.String()); err != nil {
			return err
		}
	}
	return nil
}
