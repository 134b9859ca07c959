package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay количество минут в сутках
const MinutesPerDay = 24 * 60

// ErrMalformedTime возвращается, когда строка времени суток не соответствует формату HH:MM[:SS]
var ErrMalformedTime = errors.New("types: malformed time of day")

// TimeString время суток в формате "HH:MM" (секунды отбрасываются)
type TimeString string

// NewTimeString создает TimeString из часов и минут
func NewTimeString(hour, minute int) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", hour, minute))
}

// NewTimeStringFromString парсит строку "HH:MM" или "HH:MM:SS" и нормализует её к "HH:MM"
func NewTimeStringFromString(s string) (TimeString, error) {
	minutes, err := ToMinutesSinceMidnight(s)
	if err != nil {
		return "", err
	}
	return FromMinutes(minutes), nil
}

// FromMinutes создает TimeString из количества минут от полуночи
func FromMinutes(minutes int) TimeString {
	return NewTimeString(minutes/60, minutes%60)
}

// ToMinutesSinceMidnight переводит "HH:MM[:SS]" в минуты от полуночи, диапазон [0, 1440)
func ToMinutesSinceMidnight(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}

	limits := []int{24, 60, 60}
	values := make([]int, len(parts))
	for i, part := range parts {
		if part == "" || len(part) > 2 {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
		}
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 || v >= limits[i] {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
		}
		values[i] = v
	}

	return values[0]*60 + values[1], nil
}

// Minutes возвращает количество минут от полуночи
func (t TimeString) Minutes() (int, error) {
	return ToMinutesSinceMidnight(string(t))
}

// Validate проверяет корректность формата
func (t TimeString) Validate() error {
	_, err := t.Minutes()
	return err
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// String возвращает строковое представление
func (t TimeString) String() string {
	return string(t)
}

// IsBefore возвращает true, если t строго раньше other
// Некорректные значения сравниваются как строки
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	if errA != nil || errB != nil {
		return string(t) < string(other)
	}
	return a < b
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return other.IsBefore(t)
}

// Scan реализует sql.Scanner для колонок типа TIME
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		return t.parseDB(v)
	case []byte:
		return t.parseDB(string(v))
	case time.Time:
		*t = NewTimeString(v.Hour(), v.Minute())
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrMalformedTime, src)
	}
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

func (t *TimeString) parseDB(s string) error {
	// Postgres может вернуть дробные секунды: "09:00:00.000000"
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		s = s[:idx]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
