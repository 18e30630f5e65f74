package json_types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/suchimauz/appointment-board/internal/utils"
)

// Пустое значение и null дают нулевое время
type DateTime struct {
	Date time.Time
}

func NewDateTime(t time.Time) DateTime {
	return DateTime{Date: t}
}

func (t DateTime) IsZero() bool {
	return t.Date.IsZero()
}

func (t *DateTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = DateTime{}
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("datetime must be a string: %w", err)
	}

	if strings.TrimSpace(str) == "" {
		*t = DateTime{}
		return nil
	}

	parsedDate, err := utils.ParseDate(str)
	if err != nil {
		return err
	}

	*t = DateTime{Date: parsedDate}
	return nil
}

// Хранилище получает то же значение, что отправляет форма
func (t DateTime) MarshalJSON() ([]byte, error) {
	if t.Date.IsZero() {
		return json.Marshal(nil)
	}
	return json.Marshal(utils.FormatEditable(t.Date))
}

// OptionalID ссылается на другую запись.
// В хранилище встречаются null, "", число и число строкой.
type OptionalID struct {
	ID    int64
	Valid bool
}

func NewOptionalID(id int64) OptionalID {
	return OptionalID{ID: id, Valid: true}
}

// ParseOptionalID разбирает значение поля формы
func ParseOptionalID(raw string) (OptionalID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return OptionalID{}, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return OptionalID{}, fmt.Errorf("invalid id %q: %w", raw, err)
	}

	return NewOptionalID(id), nil
}

func (o OptionalID) String() string {
	if !o.Valid {
		return ""
	}
	return strconv.FormatInt(o.ID, 10)
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = OptionalID{}
		return nil
	}

	var id int64
	if err := json.Unmarshal(data, &id); err == nil {
		*o = NewOptionalID(id)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("optional id must be a number or a string: %w", err)
	}

	parsed, err := ParseOptionalID(str)
	if err != nil {
		return err
	}

	*o = parsed
	return nil
}

func (o OptionalID) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return json.Marshal(nil)
	}
	return json.Marshal(o.ID)
}
