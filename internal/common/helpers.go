// Package common содержит общие утилиты, используемые во всём проекте:
// русская плюрализация, форматирование сумм и дат.
package common

import (
	"fmt"
	"time"
)

// Pluralize выбирает форму слова для числа n по правилам русского языка.
//
// Правила:
//   - n%10==1 И n%100!=11 → one ("монета": 1, 21, 31, 101)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → few ("монеты": 2, 3, 4, 22)
//   - остальные → many ("монет": 0, 5-20, 25-30, 100)
func Pluralize(n int64, one, few, many string) string {
	if n < 0 {
		n = -n
	}
	lastDigit := n % 10
	lastTwoDigits := n % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return one
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return few
	}
	return many
}

// PluralizeCoins возвращает форму слова «монета» для числа n.
//
//	PluralizeCoins(1)  → "монета"
//	PluralizeCoins(3)  → "монеты"
//	PluralizeCoins(11) → "монет"
func PluralizeCoins(n int64) string {
	return Pluralize(n, "монета", "монеты", "монет")
}

// PluralizeDays возвращает форму слова «день» для числа n.
func PluralizeDays(n int) string {
	return Pluralize(int64(n), "день", "дня", "дней")
}

// FormatBalance форматирует баланс: FormatBalance(150) → "150 монет".
func FormatBalance(balance int64) string {
	return fmt.Sprintf("%s %s", FormatNumber(balance), PluralizeCoins(balance))
}

// FormatDateTime форматирует время как "02.01.2006 15:04" в поясе loc.
func FormatDateTime(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("02.01.2006 15:04")
}

// FormatMultiplier печатает множитель без лишних нулей: 1.5 → "x1.5", 2 → "x2".
func FormatMultiplier(m float64) string {
	return "x" + fmt.Sprintf("%g", m)
}
