package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	kconf "github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/tracing"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ConfigKey is where InitLogger reads its settings from.
const ConfigKey = "asphalt.log"

// Config configures the log outputs.
type Config struct {
	Level         string `json:"level"`
	ConsoleOutput bool   `json:"console_output"`
	FilePath      string `json:"file_path"`
	MaxSizeMB     int    `json:"max_size_mb"`
	MaxBackups    int    `json:"max_backups"`
	MaxAgeDays    int    `json:"max_age_days"`
	Compress      bool   `json:"compress"`
}

var (
	levelMu sync.RWMutex
	// unified level filtering (kratos + zerolog)
	kratosMinLevel = log.LevelInfo
)

// InitLogger builds the global logger from the "asphalt.log" section of cfg.
// A missing section means info level to the console.
func InitLogger(name, version string, cfg kconf.Config) error {
	if name == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	if cfg == nil {
		return fmt.Errorf("configuration instance cannot be nil")
	}

	logConfig := Config{Level: "info", ConsoleOutput: true}
	if err := cfg.Value(ConfigKey).Scan(&logConfig); err != nil && !errors.Is(err, kconf.ErrNotFound) {
		return fmt.Errorf("invalid logging configuration at %s: %w", ConfigKey, err)
	}

	var writers []io.Writer
	if logConfig.ConsoleOutput {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339Nano,
			PartsOrder: []string{
				zerolog.TimestampFieldName,
				zerolog.LevelFieldName,
				zerolog.CallerFieldName,
				zerolog.MessageFieldName,
			},
		})
	}
	if logConfig.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(logConfig.FilePath), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   logConfig.FilePath,
			MaxSize:    logConfig.MaxSizeMB,
			MaxBackups: logConfig.MaxBackups,
			MaxAge:     logConfig.MaxAgeDays,
			Compress:   logConfig.Compress,
		})
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	SetLevel(ParseLevel(logConfig.Level))

	logger := log.With(
		NewLogger(zerolog.MultiLevelWriter(writers...)),
		"service.name", name,
		"service.version", version,
		"trace.id", tracing.TraceID(),
		"span.id", tracing.SpanID(),
	)
	SetLogger(logger)
	Infof("logging initialised at %s level", strings.ToLower(logConfig.Level))
	return nil
}

// NewLogger returns a level-filtered kratos logger writing JSON lines to w.
func NewLogger(w io.Writer) log.Logger {
	zl := zerolog.New(w).With().Timestamp().Logger()
	return log.NewFilter(zerologSink{zl}, log.FilterFunc(func(level log.Level, _ ...any) bool {
		return level < currentKratosLevel()
	}))
}

// SetLogger installs l as the global logger.
func SetLogger(l log.Logger) {
	installed.Store(&sink{logger: l})
}

// ParseLevel maps "debug", "info", "warn" and "error" to a Level; anything else is InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// SetLevel sets the global logging level.
func SetLevel(level Level) {
	var lvl log.Level
	switch level {
	case DebugLevel:
		lvl = log.LevelDebug
	case WarnLevel:
		lvl = log.LevelWarn
	case ErrorLevel:
		lvl = log.LevelError
	default:
		lvl = log.LevelInfo
	}
	levelMu.Lock()
	kratosMinLevel = lvl
	levelMu.Unlock()
}

// GetLevel returns the current global logging level.
func GetLevel() Level {
	switch currentKratosLevel() {
	case log.LevelDebug:
		return DebugLevel
	case log.LevelWarn:
		return WarnLevel
	case log.LevelError:
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func currentKratosLevel() log.Level {
	levelMu.RLock()
	defer levelMu.RUnlock()
	return kratosMinLevel
}
