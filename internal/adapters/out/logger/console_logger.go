package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/suchimauz/appointment-board/internal/core/ports/out"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[37m"
)

var levelColors = map[out.LogLevel]string{
	out.LogLevelDebug: colorGray,
	out.LogLevelInfo:  colorGreen,
	out.LogLevelWarn:  colorYellow,
	out.LogLevelError: colorRed,
}

type ConsoleLogger struct {
	defaultFields out.LogFields
	module        string
	location      *time.Location
	writer        io.Writer
	mu            *sync.Mutex
}

func NewConsoleLogger(timezone string) (*ConsoleLogger, error) {
	return NewConsoleLoggerWithWriter(timezone, os.Stdout), nil
}

func NewConsoleLoggerWithWriter(timezone string, w io.Writer) *ConsoleLogger {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}

	return &ConsoleLogger{
		defaultFields: make(out.LogFields),
		location:      loc,
		writer:        w,
		mu:            &sync.Mutex{},
	}
}

func (l *ConsoleLogger) WithFields(fields out.LogFields) out.LoggerPort {
	return &ConsoleLogger{
		defaultFields: mergeFields(l.defaultFields, fields),
		module:        l.module,
		location:      l.location,
		writer:        l.writer,
		mu:            l.mu,
	}
}

func (l *ConsoleLogger) WithModule(module string) out.LoggerPort {
	return &ConsoleLogger{
		defaultFields: l.defaultFields,
		module:        module,
		location:      l.location,
		writer:        l.writer,
		mu:            l.mu,
	}
}

func (l *ConsoleLogger) Debug(event string, fields out.LogFields) {
	l.log(out.LogLevelDebug, event, fields)
}

func (l *ConsoleLogger) Info(event string, fields out.LogFields) {
	l.log(out.LogLevelInfo, event, fields)
}

func (l *ConsoleLogger) Warn(event string, fields out.LogFields) {
	l.log(out.LogLevelWarn, event, fields)
}

func (l *ConsoleLogger) Error(event string, fields out.LogFields) {
	l.log(out.LogLevelError, event, fields)
}

func (l *ConsoleLogger) log(level out.LogLevel, event string, fields out.LogFields) {
	module := l.module
	if module == "" {
		module = "unknown"
	}

	mergedFields := mergeFields(l.defaultFields, fields)
	mergedFields["event"] = event

	// Используем таймзону для форматирования времени
	timestamp := time.Now().In(l.location).Format("2006-01-02 15:04:05.000")

	fieldsBytes, err := json.MarshalIndent(mergedFields, "", "  ")
	if err != nil {
		fieldsBytes = []byte(fmt.Sprintf("%v", mergedFields))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.writer, "%s[%s]%s %s[%s]%s %s[%s]%s\n%s\n\n",
		colorGray, timestamp, colorReset,
		levelColors[level], level, colorReset,
		colorCyan, module, colorReset,
		string(fieldsBytes),
	)
}

func mergeFields(base, extra out.LogFields) out.LogFields {
	merged := make(out.LogFields, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
