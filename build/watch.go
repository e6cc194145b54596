package build

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"atomcss/state"
)

const debounce = 100 * time.Millisecond

// Watch is action of the watch command: it builds recipe and rebuilds it
// every time recipe file changes until interrupted. Engines are kept between
// rebuilds, so class names of unchanged styles never change.
func Watch(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Logger("watch")

	opts, err := optionsFromCommand(cmd, log)
	if err != nil {
		return err
	}

	b := newBuilder(env, opts, log)
	err = watch(ctx, b, nil)
	return multierr.Append(err, b.close())
}

// watch runs until context is done. Build failures after the first one are
// logged and watching continues. Optional notify is called after every build.
func watch(ctx context.Context, b *builder, notify func(*Result, error)) error {
	res, err := b.build(ctx)
	if notify != nil {
		notify(res, err)
	}
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to create watcher: %w", err)
	}
	defer w.Close()

	// editors often replace files, watching directory survives that
	dir := filepath.Dir(b.opts.Src)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("unable to watch %s: %w", dir, err)
	}
	b.log.Info("Watching recipe", zap.String("recipe", b.opts.Src))

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			b.log.Info("Watching stopped", zap.Int("builds", b.builds))
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != b.opts.Src {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				timer.Reset(debounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			b.log.Warn("Watcher error", zap.Error(err))

		case <-timer.C:
			res, err := b.build(ctx)
			if err != nil {
				b.log.Error("Rebuild failed", zap.Error(err))
			} else {
				b.log.Info("Rebuilt", zap.Int("build", b.builds), zap.Int("styles", len(res.Names)))
			}
			if notify != nil {
				notify(res, err)
			}
		}
	}
}
