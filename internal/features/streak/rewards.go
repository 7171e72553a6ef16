// Package streak — rewards.go содержит таблицу наград по дням цикла
// и множители за длинный стрик.
package streak

import "fmt"

// RewardScheduleEntry — награда за одну позицию недельного цикла.
type RewardScheduleEntry struct {
	DayPosition int    // 1..7
	BaseCoins   int64  // Базовые монеты
	BonusLabel  string // Подпись, например "Weekly Bonus!"
}

// CycleLength — длина цикла наград.
const CycleLength = 7

// schedule не меняется. Наружу отдаются только копии через ScheduleEntry.
var schedule = [CycleLength]RewardScheduleEntry{
	{DayPosition: 1, BaseCoins: 10},
	{DayPosition: 2, BaseCoins: 15},
	{DayPosition: 3, BaseCoins: 20},
	{DayPosition: 4, BaseCoins: 25},
	{DayPosition: 5, BaseCoins: 30},
	{DayPosition: 6, BaseCoins: 40},
	{DayPosition: 7, BaseCoins: 50, BonusLabel: "Weekly Bonus!"},
}

// ScheduleEntry возвращает награду для позиции цикла 0..6.
// Позиция берётся по модулю 7, отрицательные приводятся к 0..6.
func ScheduleEntry(position int) RewardScheduleEntry {
	position %= CycleLength
	if position < 0 {
		position += CycleLength
	}
	return schedule[position]
}

// Schedule возвращает копию всей таблицы.
func Schedule() []RewardScheduleEntry {
	out := make([]RewardScheduleEntry, CycleLength)
	copy(out, schedule[:])
	return out
}

// StreakMultiplier возвращает множитель награды за стрик.
//
//	>= 30 дней: x1.5
//	>= 14 дней: x1.3
//	>= 7 дней:  x1.2
//	>= 3 дней:  x1.1
//	иначе:      x1.0
func StreakMultiplier(streak int) float64 {
	switch {
	case streak >= 30:
		return 1.5
	case streak >= 14:
		return 1.3
	case streak >= 7:
		return 1.2
	case streak >= 3:
		return 1.1
	default:
		return 1.0
	}
}

// FormatRewardDescription — описание транзакции: "Ежедневная награда: день 8".
func FormatRewardDescription(day int) string {
	return fmt.Sprintf("Ежедневная награда: день %d", day)
}
