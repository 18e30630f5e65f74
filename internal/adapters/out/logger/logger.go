package logger

import (
	"os"

	"github.com/suchimauz/appointment-board/internal/config"
	"github.com/suchimauz/appointment-board/internal/core/ports/out"
)

// NewLogger выбирает реализацию по LOG_FORMAT
func NewLogger(cfg *config.Config) (out.LoggerPort, error) {
	switch cfg.Log.Format {
	case config.LogFormatJSON:
		return NewZerologLogger(os.Stdout, cfg.App.Timezone), nil
	default:
		return NewConsoleLogger(cfg.App.Timezone)
	}
}
