package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/suchimauz/appointment-board/internal/core/ports/out"
)

// ZerologLogger пишет события в JSON, одна строка на событие
type ZerologLogger struct {
	logger zerolog.Logger
}

func NewZerologLogger(w io.Writer, timezone string) *ZerologLogger {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return newZerologLogger(w, loc, time.Now)
}

// Время добавляется хуком, чтобы не трогать глобальный zerolog.TimestampFunc
func newZerologLogger(w io.Writer, loc *time.Location, now func() time.Time) *ZerologLogger {
	stamp := zerolog.HookFunc(func(e *zerolog.Event, _ zerolog.Level, _ string) {
		e.Time(zerolog.TimestampFieldName, now().In(loc))
	})

	zl := zerolog.New(w).Hook(stamp).With().
		Str("module", "unknown").
		Logger()

	return &ZerologLogger{logger: zl}
}

func (l *ZerologLogger) WithFields(fields out.LogFields) out.LoggerPort {
	return &ZerologLogger{logger: l.logger.With().Fields(map[string]interface{}(fields)).Logger()}
}

func (l *ZerologLogger) WithModule(module string) out.LoggerPort {
	return &ZerologLogger{logger: l.logger.With().Str("module", module).Logger()}
}

func (l *ZerologLogger) Debug(event string, fields out.LogFields) {
	l.logger.Debug().Fields(map[string]interface{}(fields)).Msg(event)
}

func (l *ZerologLogger) Info(event string, fields out.LogFields) {
	l.logger.Info().Fields(map[string]interface{}(fields)).Msg(event)
}

func (l *ZerologLogger) Warn(event string, fields out.LogFields) {
	l.logger.Warn().Fields(map[string]interface{}(fields)).Msg(event)
}

func (l *ZerologLogger) Error(event string, fields out.LogFields) {
	l.logger.Error().Fields(map[string]interface{}(fields)).Msg(event)
}
