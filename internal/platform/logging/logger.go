// Package logging writes the service's JSON log lines. Calls take a message
// followed by alternating keys and values; the *Context variants add the
// trace and span ids of the active span.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"syscall"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// Logger is safe for concurrent use. A nil *Logger writes through Default.
type Logger struct {
	sugar *zap.SugaredLogger
}

// Info, Warn and friends sit two frames above the zap call.
const wrapperDepth = 2

var (
	nop = &Logger{sugar: zap.NewNop().Sugar()}
	std atomic.Pointer[Logger]
)

// ParseLevel maps APP_LOG_LEVEL values. Blank means info; anything above
// error is rejected.
func ParseLevel(raw string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	switch name {
	case "":
		return LevelInfo, nil
	case "warning":
		name = "warn"
	}

	var lvl Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil || lvl > LevelError {
		return LevelInfo, fmt.Errorf("unknown log level %q", raw)
	}
	return lvl, nil
}

func NewJSON(level Level) *Logger {
	return NewJSONWriter(os.Stdout, level)
}

func NewJSONWriter(w io.Writer, level Level) *Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	enc.EncodeDuration = zapcore.StringDurationEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(zapcore.AddSync(w)), level)
	z := zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(wrapperDepth),
		zap.AddStacktrace(LevelError),
	)
	return &Logger{sugar: z.Sugar()}
}

func NewNop() *Logger {
	return nop
}

// Default is the process-wide logger, a no-op until SetDefault runs.
func Default() *Logger {
	if l := std.Load(); l != nil {
		return l
	}
	return nop
}

func SetDefault(l *Logger) {
	if l == nil {
		l = nop
	}
	std.Store(l)
}

func (l *Logger) backend() *zap.SugaredLogger {
	if l == nil || l.sugar == nil {
		return Default().sugar
	}
	return l.sugar
}

// Sync flushes buffered entries. Stdout on a terminal or pipe cannot be
// fsynced; that error is dropped.
func (l *Logger) Sync() error {
	err := l.backend().Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{sugar: l.backend().With(args...)}
}

func (l *Logger) Named(name string) *Logger {
	return &Logger{sugar: l.backend().Named(name)}
}

func (l *Logger) Debug(msg string, args ...any) { l.write(context.Background(), LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.write(context.Background(), LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.write(context.Background(), LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.write(context.Background(), LevelError, msg, args) }

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelDebug, msg, args)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelInfo, msg, args)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelWarn, msg, args)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelError, msg, args)
}

func (l *Logger) write(ctx context.Context, lvl Level, msg string, args []any) {
	s := l.backend()
	if !s.Level().Enabled(lvl) {
		return
	}
	s.Logw(lvl, msg, withTrace(ctx, args)...)
}

// withTrace appends trace_id and span_id when ctx carries a valid span.
func withTrace(ctx context.Context, args []any) []any {
	if ctx == nil {
		return args
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return args
	}
	out := make([]any, 0, len(args)+4)
	out = append(out, args...)
	return append(out, "trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String())
}
