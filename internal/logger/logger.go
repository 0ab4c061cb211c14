// Package logger provides the structured logger used throughout the
// scheduler. It wraps log/slog with source-location reporting that points
// at the caller rather than this package's own frames, and with the
// text/json output switch the CLI exposes via --log-format.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
)

// Logger is the logging surface every package depends on. It is kept
// narrow and level-based rather than exposing the full slog.Logger so the
// call-site-reporting handler stays in one place.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	With(args ...any) Logger
	WithGroup(name string) Logger
}

type options struct {
	debug  bool
	format string
	writer io.Writer
	quiet  bool
}

// Option configures NewLogger.
type Option func(*options)

// WithDebug enables debug-level logging and source-location attributes.
func WithDebug() Option { return func(o *options) { o.debug = true } }

// WithFormat selects "text" (default) or "json" output.
func WithFormat(format string) Option { return func(o *options) { o.format = format } }

// WithWriter overrides the destination, default os.Stderr.
func WithWriter(w io.Writer) Option { return func(o *options) { o.writer = w } }

// WithQuiet sets quiet mode. The handlers built by NewLogger write nothing
// beyond the records logged through them, so the option changes no output.
func WithQuiet() Option { return func(o *options) { o.quiet = true } }

type logger struct {
	sl *slog.Logger
}

// NewLogger builds a Logger from the given options.
func NewLogger(opts ...Option) Logger {
	o := &options{format: "text", writer: os.Stderr}
	for _, fn := range opts {
		fn(o)
	}

	level := slog.LevelInfo
	if o.debug {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     level,
		AddSource: o.debug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				return replaceSource(a)
			}
			return a
		},
	}

	var handler slog.Handler
	if o.format == "json" {
		handler = slog.NewJSONHandler(o.writer, handlerOpts)
	} else {
		handler = slog.NewTextHandler(o.writer, handlerOpts)
	}

	return &logger{sl: slog.New(&callerHandler{Handler: handler})}
}

// callerHandler rewrites the record's PC to the first frame outside this
// package, so Info/Error etc. report the caller's file:line instead of
// logger.go's own.
type callerHandler struct {
	slog.Handler
}

func (h *callerHandler) Handle(ctx context.Context, r slog.Record) error {
	if pc, err := callerPC(); err == nil {
		r.PC = pc
	}
	return h.Handler.Handle(ctx, r)
}

func (h *callerHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &callerHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *callerHandler) WithGroup(name string) slog.Handler {
	return &callerHandler{Handler: h.Handler.WithGroup(name)}
}

var errNoCaller = errors.New("logger: no caller frame")

// thisPackage is the function-name prefix of this package's own frames.
const thisPackage = "github.com/ningyanhui/scheduler-dag/internal/logger."

func callerPC() (uintptr, error) {
	var pcs [32]uintptr
	// Skip: Callers, callerPC and Handle, then walk past the log/slog
	// frames and this package's wrappers, leaving the user's call site.
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !strings.HasPrefix(f.Function, "log/slog.") && !strings.HasPrefix(f.Function, thisPackage) {
			return f.PC, nil
		}
		if !more {
			return 0, errNoCaller
		}
	}
}

func replaceSource(a slog.Attr) slog.Attr {
	return a
}

func (l *logger) Debug(msg string, args ...any) { l.sl.Debug(msg, args...) }
func (l *logger) Info(msg string, args ...any)  { l.sl.Info(msg, args...) }
func (l *logger) Warn(msg string, args ...any)  { l.sl.Warn(msg, args...) }
func (l *logger) Error(msg string, args ...any) { l.sl.Error(msg, args...) }

func (l *logger) Debugf(format string, args ...any) { l.sl.Debug(fmt.Sprintf(format, args...)) }
func (l *logger) Infof(format string, args ...any)  { l.sl.Info(fmt.Sprintf(format, args...)) }
func (l *logger) Warnf(format string, args ...any)  { l.sl.Warn(fmt.Sprintf(format, args...)) }
func (l *logger) Errorf(format string, args ...any) { l.sl.Error(fmt.Sprintf(format, args...)) }

func (l *logger) With(args ...any) Logger {
	return &logger{sl: l.sl.With(args...)}
}

func (l *logger) WithGroup(name string) Logger {
	return &logger{sl: l.sl.WithGroup(name)}
}

// nopLogger discards everything; used as the context default so callers
// never need a nil check.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any)    {}
func (nopLogger) Info(string, ...any)     {}
func (nopLogger) Warn(string, ...any)     {}
func (nopLogger) Error(string, ...any)    {}
func (nopLogger) Debugf(string, ...any)   {}
func (nopLogger) Infof(string, ...any)    {}
func (nopLogger) Warnf(string, ...any)    {}
func (nopLogger) Errorf(string, ...any)   {}
func (nopLogger) With(...any) Logger      { return nopLogger{} }
func (nopLogger) WithGroup(string) Logger { return nopLogger{} }

var _ Logger = nopLogger{}

// Default is a ready-to-use text logger writing to stderr.
func Default() Logger { return NewLogger() }
