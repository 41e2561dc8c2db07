// Package log is the logging façade used across asphalt: a kratos
// log.Logger backed by zerolog, reached through package-level functions.
package log

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

// Level represents the logging level.
type Level int32

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// sink holds the installed logger; atomic.Pointer needs a concrete type.
type sink struct {
	logger log.Logger
}

var installed atomic.Pointer[sink]

// current returns the installed logger, nil before InitLogger or SetLogger.
func current() log.Logger {
	if s := installed.Load(); s != nil {
		return s.logger
	}
	return nil
}

// emit formats and writes one message. Before a logger is installed, info
// and above go to stderr as plain lines.
func emit(ctx context.Context, level log.Level, format string, a []any) {
	if level < currentKratosLevel() {
		return
	}
	var msg string
	if format == "" {
		msg = fmt.Sprint(a...)
	} else {
		msg = fmt.Sprintf(format, a...)
	}

	l := current()
	if l == nil {
		if level >= log.LevelInfo {
			fmt.Fprintf(os.Stderr, "%s %-5s %s\n", time.Now().Format(time.DateTime), level, msg)
		}
		return
	}
	_ = log.WithContext(ctx, l).Log(level, log.DefaultMessageKey, msg)
}

func Debugf(format string, a ...any) { emit(context.Background(), log.LevelDebug, format, a) }

// DebugfCtx logs at debug level with the trace fields carried by ctx.
func DebugfCtx(ctx context.Context, format string, a ...any) {
	emit(ctx, log.LevelDebug, format, a)
}

func Infof(format string, a ...any) { emit(context.Background(), log.LevelInfo, format, a) }

func Warnf(format string, a ...any) { emit(context.Background(), log.LevelWarn, format, a) }

func Error(a ...any) { emit(context.Background(), log.LevelError, "", a) }

func Errorf(format string, a ...any) { emit(context.Background(), log.LevelError, format, a) }

// ErrorfCtx logs at error level with the trace fields carried by ctx.
func ErrorfCtx(ctx context.Context, format string, a ...any) {
	emit(ctx, log.LevelError, format, a)
}
