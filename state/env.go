// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"estoria/common"
	"estoria/config"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// RunID identifies single program invocation in logs and debug report.
	RunID uuid.UUID

	// used by render subcommand, command line overrides configuration
	DataPath string
	Modes    []common.DisplayMode
	Strict   bool
	Workers  int

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}

// ApplyConfig fills rendering parameters not set from command line with
// configured values.
func (e *LocalEnv) ApplyConfig() {
	if e.Cfg == nil {
		return
	}
	if len(e.DataPath) == 0 {
		e.DataPath = e.Cfg.Corpus.DataPath
	}
	if len(e.Modes) == 0 {
		e.Modes = e.Cfg.Rendering.Modes
	}
	e.Strict = e.Strict || e.Cfg.Rendering.Strict
	if e.Workers <= 0 {
		e.Workers = e.Cfg.Rendering.Workers
	}
}
