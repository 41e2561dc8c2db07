package log

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/rs/zerolog"
)

var zerologLevels = map[log.Level]zerolog.Level{
	log.LevelDebug: zerolog.DebugLevel,
	log.LevelInfo:  zerolog.InfoLevel,
	log.LevelWarn:  zerolog.WarnLevel,
	log.LevelError: zerolog.ErrorLevel,
	log.LevelFatal: zerolog.FatalLevel,
}

// zerologSink writes kratos records as zerolog events. The message key
// becomes the event message and error values are attached with AnErr.
// Fatal records are written without exiting.
type zerologSink struct {
	zl zerolog.Logger
}

func (s zerologSink) Log(level log.Level, keyvals ...any) error {
	zlevel, ok := zerologLevels[level]
	if !ok {
		zlevel = zerolog.WarnLevel
	}
	event := s.zl.WithLevel(zlevel)

	var msg string
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		var val any = "MISSING"
		if i+1 < len(keyvals) {
			val = keyvals[i+1]
		}
		if key == log.DefaultMessageKey {
			msg = fmt.Sprint(val)
			continue
		}
		if err, isErr := val.(error); isErr {
			event = event.AnErr(key, err)
			continue
		}
		event = event.Interface(key, val)
	}
	event.Msg(msg)
	return nil
}
