package willowvr

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discardHandler drops every record. Enabled reports false, so log calls on
// the hot resolve path cost a single check.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

var (
	silentLogger = slog.New(discardHandler{})
	activeLogger atomic.Pointer[slog.Logger]
)

func init() {
	activeLogger.Store(silentLogger)
}

// SetLogger routes the runtime's diagnostics to l. Nil restores the silent
// default.
//
// The runtime logs:
//   - Debug "ignoring extra rays" when SetRays receives more than one ray
//   - Warn "surface render failed" for each surface Frame could not render
//   - Warn "main scene render failed" from the Run draw loop
//   - Warn "screenshot failed" and "screenshot: mkdir failed" when a queued
//     screenshot cannot be written
//   - Warn "test script expectation failed" when a scripted expect step
//     sees a different cursor target
//
// Per-cycle resolve and frame stats go to stderr through SetDebugMode
// instead.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silentLogger
	}
	activeLogger.Store(l)
}

// Logger returns the logger set with SetLogger.
func Logger() *slog.Logger {
	return activeLogger.Load()
}
