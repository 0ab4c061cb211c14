package logger

import "context"

type ctxKey struct{}

// WithLogger attaches lg to ctx so downstream calls can recover it with
// FromContext instead of threading a Logger parameter through every call.
func WithLogger(ctx context.Context, lg Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, lg)
}

// FromContext returns the Logger attached to ctx, or a no-op Logger if none
// was attached — callers never need a nil check.
func FromContext(ctx context.Context) Logger {
	if lg, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return lg
	}
	return nopLogger{}
}

// Debug logs at debug level using the logger attached to ctx.
func Debug(ctx context.Context, msg string, args ...any) { FromContext(ctx).Debug(msg, args...) }

// Info logs at info level using the logger attached to ctx.
func Info(ctx context.Context, msg string, args ...any) { FromContext(ctx).Info(msg, args...) }

// Warn logs at warn level using the logger attached to ctx.
func Warn(ctx context.Context, msg string, args ...any) { FromContext(ctx).Warn(msg, args...) }

// Error logs at error level using the logger attached to ctx.
func Error(ctx context.Context, msg string, args ...any) { FromContext(ctx).Error(msg, args...) }
