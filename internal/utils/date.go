package utils

import (
	"fmt"
	"time"

	"github.com/suchimauz/appointment-board/internal/config"
)

const (
	// Значение поля datetime-local в форме
	EditableLayout = "2006-01-02T15:04"
	// toLocaleString('fr-FR')
	DisplayLayout = "02/01/2006 15:04:05"
)

var zonelessLayouts = []string{
	"2006-01-02T15:04:05",
	EditableLayout,
	"2006-01-02",
}

// ParseDate парсит дату из строки в формате RFC3339, если не удается, то пробует форматы без таймзоны
// По дефолту ставим таймзону из конфига
func ParseDate(str string) (time.Time, error) {
	parsedDate, err := time.Parse(time.RFC3339, str)
	if err == nil {
		return parsedDate, nil
	}

	for _, layout := range zonelessLayouts {
		parsedDate, err = time.ParseInLocation(layout, str, config.TimeZone)
		if err == nil {
			return parsedDate, nil
		}
	}

	return time.Time{}, fmt.Errorf("failed to parse time %q: %v", str, err)
}

// FormatEditable приводит момент времени к локальному представлению формы (точность до минуты)
func FormatEditable(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(config.TimeZone).Format(EditableLayout)
}

func FormatDisplay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(config.TimeZone).Format(DisplayLayout)
}
