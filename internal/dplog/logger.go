// Package dplog provides the session-lifecycle logger used by cmd/dpc and
// cmd/dp-lsp: compile start/end, cache hit/miss, cancellation, and resolver
// failures. It is deliberately separate from dp.Sink, which carries the
// per-spec diagnostics contract (syntax/semantic errors shown to the user
// writing a .dp script) and is never routed through slog.
package dplog

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction. Values can be set directly or
// (via FromEnv) through environment variables:
//   - DP_LOG_LEVEL=debug|info|warn|error
//   - DP_LOG_FILE=<path> enables rotating file output alongside stderr
type Options struct {
	Level string
	File  string
}

var (
	mu      sync.RWMutex
	current *slog.Logger
)

// Init configures the package-level logger and installs it as slog's
// default, so library code that only knows about log/slog still lands in
// the same sink.
func Init(opts Options) {
	lvl := parseLevel(opts.Level)
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})

	var h slog.Handler = handler
	if strings.TrimSpace(opts.File) != "" {
		w := &lj.Logger{Filename: opts.File, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		fh := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
		h = &teeHandler{primary: handler, secondary: fh}
	}

	logger := slog.New(h).With(slog.String("component", "dp"))

	mu.Lock()
	current = logger
	mu.Unlock()
	slog.SetDefault(logger)
}

// L returns the package logger, lazily initializing a stderr-only default
// from the environment if Init was never called.
func L() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// FromEnv builds Options from DP_LOG_LEVEL / DP_LOG_FILE.
func FromEnv() Options {
	return Options{
		Level: getenv("DP_LOG_LEVEL", "info"),
		File:  os.Getenv("DP_LOG_FILE"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// teeHandler fans a record out to a console handler and a rotating-file
// handler. Only Init constructs one, when file logging is enabled.
type teeHandler struct {
	primary   slog.Handler
	secondary slog.Handler
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return t.primary.Enabled(ctx, level) || t.secondary.Enabled(ctx, level)
}

func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := t.primary.Handle(ctx, r.Clone()); err != nil {
		return err
	}
	return t.secondary.Handle(ctx, r.Clone())
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &teeHandler{primary: t.primary.WithAttrs(attrs), secondary: t.secondary.WithAttrs(attrs)}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{primary: t.primary.WithGroup(name), secondary: t.secondary.WithGroup(name)}
}
