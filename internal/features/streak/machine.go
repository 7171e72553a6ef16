// Package streak — machine.go содержит переходы состояния стрика.
// Функции чистые: время приходит ключом даты today, хранилище не трогается.
package streak

import (
	"serotonyl.ru/reward-bot/internal/calendar"
	"serotonyl.ru/reward-bot/internal/features/rewards"
)

// graceGap — пропуск в один день (последнее получение позавчера),
// который ещё можно закрыть защитой.
const graceGap = 2

// CanClaimToday — награда за today ещё не получена.
func CanClaimToday(st *State, today string) bool {
	return st.LastClaimDate == nil || *st.LastClaimDate != today
}

// PreviewTodayReward показывает награду дня без изменения состояния.
// Позиция цикла = CurrentStreak mod 7.
func PreviewTodayReward(st *State, today string) Preview {
	return Preview{
		RewardScheduleEntry: ScheduleEntry(st.CurrentStreak),
		Claimed:             !CanClaimToday(st, today),
	}
}

// Claim выполняет получение награды за today.
// Если награда уже получена, возвращает nil, false и не меняет st.
func Claim(st *State, today string) (*ClaimResult, bool) {
	if !CanClaimToday(st, today) {
		return nil, false
	}

	weekStart := weekOf(today)
	sameWeek := st.WeekStartDate != nil && *st.WeekStartDate == weekStart
	consumed := false

	var newStreak int
	switch {
	case st.LastClaimDate == nil:
		newStreak = 1
	case calendar.IsConsecutiveDay(*st.LastClaimDate, today):
		newStreak = st.CurrentStreak + 1
	default:
		gap, err := calendar.DayGap(*st.LastClaimDate, today)
		if err == nil && gap == graceGap && !st.StreakProtectionUsed && sameWeek {
			consumed = true
			newStreak = st.CurrentStreak + 1
		} else {
			// Сюда же попадает отрицательный разрыв (часы перевели назад)
			newStreak = 1
		}
	}

	// Новая неделя сбрасывает флаг, но защита, потраченная в этом же вызове, важнее
	protectionUsed := st.StreakProtectionUsed
	if !sameWeek {
		protectionUsed = false
	}
	if consumed {
		protectionUsed = true
	}

	entry := ScheduleEntry(newStreak - 1)
	multiplier := StreakMultiplier(st.CurrentStreak)
	result := &ClaimResult{
		Coins:              rewards.Compose(entry.BaseCoins, multiplier, 1),
		BonusLabel:         entry.BonusLabel,
		BaseCoins:          entry.BaseCoins,
		Multiplier:         multiplier,
		NewStreak:          newStreak,
		PreviousStreak:     st.CurrentStreak,
		ProtectionConsumed: consumed,
	}

	claimed := today
	st.LastClaimDate = &claimed
	st.CurrentStreak = newStreak
	if newStreak > st.LongestStreak {
		st.LongestStreak = newStreak
	}
	st.TotalDaysClaimed++
	st.StreakProtectionUsed = protectionUsed
	st.WeekStartDate = &weekStart

	return result, true
}

// ExpireIfStale обнуляет стрик, если с последнего получения прошло больше
// двух дней. LongestStreak и LastClaimDate не меняются.
func ExpireIfStale(st *State, today string) bool {
	if st.LastClaimDate == nil || st.CurrentStreak == 0 {
		return false
	}
	gap, err := calendar.DayGap(*st.LastClaimDate, today)
	if err != nil || gap <= graceGap {
		return false
	}
	st.CurrentStreak = 0
	return true
}

// UseStreakProtection тратит недельную защиту вручную.
// Сначала окно недели переводится на текущую неделю: флаг прошлой недели
// уже не действует. false — защита на этой неделе уже потрачена.
func UseStreakProtection(st *State, today string) bool {
	weekStart := weekOf(today)
	if st.WeekStartDate == nil || *st.WeekStartDate != weekStart {
		st.StreakProtectionUsed = false
		st.WeekStartDate = &weekStart
	}
	if st.StreakProtectionUsed {
		return false
	}
	st.StreakProtectionUsed = true
	return true
}

// ProtectionAvailable — защиту ещё можно потратить на неделе today.
func ProtectionAvailable(st *State, today string) bool {
	if st.WeekStartDate == nil || *st.WeekStartDate != weekOf(today) {
		return true
	}
	return !st.StreakProtectionUsed
}

// weekOf возвращает воскресенье недели today. Для неверного ключа
// возвращает сам ключ: он не совпадёт ни с одной сохранённой неделей.
func weekOf(today string) string {
	week, err := calendar.WeekStartOfKey(today)
	if err != nil {
		return today
	}
	return week
}

// RewardBase и RewardMultiplier позволяют домножить результат на события.
func (r *ClaimResult) RewardBase() int64         { return r.BaseCoins }
func (r *ClaimResult) RewardMultiplier() float64 { return r.Multiplier }
