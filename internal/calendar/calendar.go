// Package calendar содержит чистые функции работы с календарными датами.
// Дата хранится как ключ "YYYY-MM-DD" в локальном времени игрока:
// сравнение ключей не зависит от времени суток.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// KeyLayout — формат ключа даты.
const KeyLayout = "2006-01-02"

// ErrInvalidDateKey — строка не является ключом даты YYYY-MM-DD.
var ErrInvalidDateKey = errors.New("некорректный ключ даты")

// TodayKey возвращает ключ даты now в часовом поясе самого now.
func TodayKey(now time.Time) string {
	return now.Format(KeyLayout)
}

// WeekStartKey возвращает ключ ближайшего воскресенья, не позже now.
func WeekStartKey(now time.Time) string {
	offset := int(now.Weekday()) // воскресенье = 0
	start := time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, now.Location())
	return start.Format(KeyLayout)
}

// WeekStartOfKey — то же, что WeekStartKey, но от ключа даты.
func WeekStartOfKey(key string) (string, error) {
	t, err := ParseKey(key)
	if err != nil {
		return "", err
	}
	return WeekStartKey(t), nil
}

// ParseKey разбирает ключ даты в полночь UTC.
func ParseKey(key string) (time.Time, error) {
	t, err := time.Parse(KeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	return t, nil
}

// ValidKey проверяет формат ключа.
func ValidKey(key string) bool {
	_, err := ParseKey(key)
	return err == nil
}

// DayGap возвращает число календарных дней от fromKey до toKey.
// Оба ключа привязаны к полуночи UTC, поэтому переходы на летнее время
// не дают дробных суток. Отрицательно, если toKey раньше fromKey.
func DayGap(fromKey, toKey string) (int, error) {
	from, err := ParseKey(fromKey)
	if err != nil {
		return 0, err
	}
	to, err := ParseKey(toKey)
	if err != nil {
		return 0, err
	}
	return int(to.Sub(from).Hours() / 24), nil
}

// IsConsecutiveDay — true, если toKey ровно на день позже fromKey.
func IsConsecutiveDay(fromKey, toKey string) bool {
	gap, err := DayGap(fromKey, toKey)
	return err == nil && gap == 1
}

// AddDays сдвигает ключ даты на n дней.
func AddDays(key string, n int) (string, error) {
	t, err := ParseKey(key)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(KeyLayout), nil
}
