package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"atomcss/build"
	"atomcss/common"
	"atomcss/config"
	"atomcss/inspect"
	"atomcss/misc"
	"atomcss/state"
)

// prepareEnv fills environment shared by all commands: configuration, debug
// report and logs.
func prepareEnv(env *state.LocalEnv, configFile string, report bool) (err error) {
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if report {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		// defaults are reproducible, user file is not
		if len(configFile) > 0 {
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData("config/"+filepath.Base(configFile), data)
			}
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return fmt.Errorf("unable to prepare logs: %w", err)
	}
	return nil
}

// initializeAppContext runs after command line is parsed and before any
// command.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		// help only
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)
	configFile := cmd.String("config")
	if err := prepareEnv(env, configFile, cmd.Bool("debug")); err != nil {
		return ctx, err
	}
	env.RedirectStdLog()

	log := env.Log
	log.Debug("Program started",
		zap.Strings("args", os.Args),
		zap.String("ver", misc.GetVersion()),
		zap.String("runtime", runtime.Version()),
		zap.String("hash", misc.GetGitHash()))
	if env.Rpt != nil {
		log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 {
		log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	env.Logger("").Debug("Program ended",
		zap.Duration("elapsed", env.Uptime()),
		zap.Int("engines", env.Engines.Len()),
		zap.Strings("parsed args", cmd.Args().Slice()))

	// report takes synced log, anything later goes to stderr
	env.RestoreStdLog()

	if e := env.Rpt.Close(); e != nil {
		err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", e))
	}
	if env.Cfg != nil {
		err = multierr.Append(err, removeEmptyPanicLog(env.Cfg.Logging.FileLogger.Destination))
	}
	return err
}

// removeEmptyPanicLog cleans up after program which did not crash. Panic log
// is created next to the log file.
func removeEmptyPanicLog(logFile string) error {
	if len(logFile) == 0 {
		return nil
	}
	debug.SetCrashOutput(nil, debug.CrashOptions{})
	fname := filepath.Join(filepath.Dir(logFile), misc.GetAppName()+"-panic.log")
	if fi, err := os.Stat(fname); err != nil || fi.Size() > 0 {
		return nil
	}
	if err := os.Remove(fname); err != nil {
		return fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, err)
	}
	return nil
}

// errWasHandled is set when command error made it into log.
var errWasHandled bool

// exitErrHandler logs command error while log is still open.
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	if env := state.EnvFromContext(ctx); env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Logger("").Warn("Unknown command, nothing to do", zap.String("command", name))
}

const recipeHelp = `
RECIPE:
    path to YAML recipe with named styles, for example:

        prefix: app
        styles:
          - name: button
            compose: [base]
            rules:
              - expr: md.paddingX
                args: [4px]
              - expr: color
                args: [white, ":hover"]

DESTINATION:
    directory for generated stylesheet and class map, if absent - current working directory
    file names are produced from output.name_template configuration value
`

func buildFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "seed", Usage: "continue class numbering from previously generated stylesheet `FILE`"},
		&cli.StringFlag{Name: "store", Usage: "keep generated rules in sqlite `DATABASE` between runs"},
		&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination files exist, overwrite them"},
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "atomic CSS generator: one rule per declaration, short stable class names",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:               "build",
				Usage:              "Generates stylesheet and class map from recipe",
				OnUsageError:       usageErrorHandler,
				Action:             build.Run,
				Flags:              buildFlags(),
				ArgsUsage:          "RECIPE [DESTINATION]",
				CustomHelpTemplate: cli.CommandHelpTemplate + recipeHelp,
			},
			{
				Name:         "watch",
				Usage:        "Generates stylesheet and regenerates it every time recipe changes",
				OnUsageError: usageErrorHandler,
				Action:       build.Watch,
				Flags:        buildFlags(),
				ArgsUsage:    "RECIPE [DESTINATION]",
				CustomHelpTemplate: cli.CommandHelpTemplate + recipeHelp + `
Class names of styles which did not change are kept between rebuilds.
Press Ctrl+C to stop watching.
`,
			},
			{
				Name:         "inspect",
				Usage:        "Shows sheets, rule counts and classes of generated stylesheet",
				OnUsageError: usageErrorHandler,
				Action:       inspect.Run,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "pretty", Usage: "output pretty printed styles instead of summary"},
				},
				ArgsUsage: "STYLESHEET",
				CustomHelpTemplate: cli.CommandHelpTemplate + `
STYLESHEET:
    stylesheet produced by build or watch, sheets are recognized by marker comments

Summary shows "next" - class sequence number the following run seeded with
this stylesheet would start from.
`,
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s
DESTINATION:
    file name to write configuration to, if absent - STDOUT

Active configuration is embedded defaults with values from configuration
file on top. Use --default to see defaults only. Class map formats: %s.
`, cli.CommandHelpTemplate, strings.Join(common.MapFormatNames(), ", ")),
			},
		},
	}
}

func main() {
	// interrupt stops watch, other commands finish quickly anyway
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	err := newApp().Run(ctx, os.Args)
	stop()
	if err != nil {
		// log may be not set yet (argument parsing) or already closed
		if !errWasHandled {
			fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
		}
		os.Exit(1)
	}
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	log := env.Logger("dumpconfig")
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	kind, data := "actual", []byte(nil)
	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Prepare()
	} else {
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		log.Info("Outputting configuration", zap.String("state", kind), zap.String("file", "STDOUT"))
		_, err = os.Stdout.Write(data)
		return err
	}

	log.Info("Outputting configuration", zap.String("state", kind), zap.String("file", fname))
	if err := os.WriteFile(fname, data, 0644); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
