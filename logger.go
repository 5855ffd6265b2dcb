package particlize

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/particlize/field"
	"github.com/gogpu/particlize/internal/gpu"
	"github.com/gogpu/particlize/text"
)

// nopHandler discards every record. Enabled reports false, so callers skip
// building attributes.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger installs l for particlize, field, text and the GPU layer. The
// default logger discards everything; nil restores it. Safe for concurrent
// use with logging.
//
// Log levels used by particlize:
//   - [slog.LevelDebug]: buffer uploads, pipeline state, skipped plugins
//   - [slog.LevelInfo]: lifecycle events (device opened, surface attached)
//   - [slog.LevelWarn]: non-fatal issues (dropped frames, bad plugin output)
//
// Example:
//
//	particlize.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	field.SetLogger(l)
	text.SetLogger(l)
	gpu.SetLogger(l)
}

// Logger returns the logger installed by SetLogger. The engine package logs
// through it.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
