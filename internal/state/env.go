// Package state defines the shared environment threaded through mlux via
// the command context, the same role the teacher's state.LocalEnv plays
// for fbc.
package state

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mlux/internal/config"
)

type envKey struct{}

// LocalEnv keeps everything the program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Log *zap.Logger

	// RunID is logged with the "program started" debug line so multiple
	// concurrent invocations (e.g. several `mlux render` batch jobs) can be
	// told apart in a shared log file.
	RunID string

	// Interactive is true for the scrolling viewer, false for `render`.
	Interactive bool
	NoWatch     bool

	start         time.Time
	restoreStdLog func()
}

func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
		RunID: uuid.NewString(),
	}
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
