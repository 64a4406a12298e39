// Package log provides structured logging for crispdm on top of zerolog.
//
// Two styles are supported. Estimators and pipelines use the key/value
// Logger interface:
//
//	logger := log.GetLoggerWithName("linear").With(log.ModelNameKey, "LinearRegression")
//	logger.Info("Training completed", log.SamplesKey, n)
//
// Application code that wants zerolog's fluent API uses GetLogger:
//
//	log.GetLogger().Warn().Err(err).Str("phase", "prediction").Msg("Prediction failed")
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Logger is the key/value logging interface used by estimators.
// kv is an alternating list of string keys and values.
type Logger interface {
	Debug(msg string, kv ...interface{})
	Info(msg string, kv ...interface{})
	Warn(msg string, kv ...interface{})
	Error(msg string, kv ...interface{})
	With(kv ...interface{}) Logger
}

var (
	mu     sync.RWMutex
	global = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
)

// SetupLogger configures the global logger at the given level ("debug",
// "info", "warn", "error", "disabled"). Output goes to stderr, rendered for
// humans when stderr is a terminal and as JSON otherwise.
func SetupLogger(level string) {
	var w io.Writer = os.Stderr
	if isatty.IsTerminal(os.Stderr.Fd()) {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	SetupLoggerWithWriter(level, w)
}

// SetupLoggerWithWriter is SetupLogger with an explicit destination.
func SetupLoggerWithWriter(level string, w io.Writer) {
	lvl := ParseLevel(level)
	zerolog.ErrorStackMarshaler = marshalStack

	mu.Lock()
	global = zerolog.New(w).With().Timestamp().Logger().Level(lvl)
	mu.Unlock()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	name := strings.ToLower(strings.TrimSpace(level))
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// GetLogger returns the global zerolog logger.
func GetLogger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := global
	return &l
}

// GetLoggerWithName returns a key/value Logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return &zeroLogger{zl: GetLogger().With().Str(ComponentKey, name).Logger()}
}

// LogError logs err at error level together with its stack detail.
func LogError(err error, msg string) {
	if err == nil {
		return
	}
	GetLogger().Error().Err(err).Str(StacktraceKey, fmt.Sprintf("%+v", err)).Msg(msg)
}

type zeroLogger struct {
	zl zerolog.Logger
}

func (l *zeroLogger) Debug(msg string, kv ...interface{}) { emit(l.zl.Debug(), msg, kv) }
func (l *zeroLogger) Info(msg string, kv ...interface{})  { emit(l.zl.Info(), msg, kv) }
func (l *zeroLogger) Warn(msg string, kv ...interface{})  { emit(l.zl.Warn(), msg, kv) }
func (l *zeroLogger) Error(msg string, kv ...interface{}) { emit(l.zl.Error(), msg, kv) }

func (l *zeroLogger) With(kv ...interface{}) Logger {
	return &zeroLogger{zl: l.zl.With().Fields(normalize(kv)).Logger()}
}

func emit(e *zerolog.Event, msg string, kv []interface{}) {
	if e == nil {
		return
	}
	e.Fields(normalize(kv)).Msg(msg)
}

// normalize pads an odd-length list and stringifies non-string keys so a
// malformed call never drops the record.
func normalize(in []interface{}) []interface{} {
	kv := make([]interface{}, len(in), len(in)+1)
	copy(kv, in)
	if len(kv)%2 == 1 {
		kv = append(kv, "(MISSING)")
	}
	for i := 0; i < len(kv); i += 2 {
		if _, ok := kv[i].(string); !ok {
			kv[i] = fmt.Sprint(kv[i])
		}
	}
	return kv
}

func marshalStack(err error) interface{} {
	return fmt.Sprintf("%+v", err)
}
