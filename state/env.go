// Package state keeps program environment which outlives single command.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"atomcss/atom"
	"atomcss/config"
	"atomcss/reload"
)

type envKey struct{}

// LocalEnv is carried in command context. Cfg, Rpt and Log are set after
// command line is parsed; Rpt is nil unless debug report was requested.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// Engines keeps atom engines by prefix for the lifetime of the process,
	// repeated builds with the same prefix continue their numbering.
	Engines *reload.Registry[*atom.Engine]

	start         time.Time
	restoreStdLog func()
}

// EnvFromContext panics when ctx was not produced by ContextWithEnv.
func EnvFromContext(ctx context.Context) *LocalEnv {
	env, ok := ctx.Value(envKey{}).(*LocalEnv)
	if !ok {
		panic("program environment is missing from context")
	}
	return env
}

// ContextWithEnv attaches fresh environment to ctx.
func ContextWithEnv(ctx context.Context) context.Context {
	env := newLocalEnv()
	return context.WithValue(ctx, envKey{}, env)
}

// Logger returns named program logger, or nop logger when logging has not
// been prepared (no command given).
func (e *LocalEnv) Logger(name string) *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log.Named(name)
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// RedirectStdLog sends standard library log output to program logger until
// RestoreStdLog.
func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil || e.restoreStdLog != nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

// RestoreStdLog flushes program logger and undoes RedirectStdLog.
func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
		e.restoreStdLog = nil
	}
}
