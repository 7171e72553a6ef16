// Package streak реализует ежедневную награду со стриком.
// models.go описывает состояние стрика и результаты операций.
package streak

import "serotonyl.ru/reward-bot/internal/calendar"

// State — сохраняемое состояние стрика одного игрока.
// JSON-теги задают формат записи в хранилище и не должны меняться.
type State struct {
	LastClaimDate        *string `json:"lastClaimDate"`        // Дата последнего получения (YYYY-MM-DD), nil — никогда
	CurrentStreak        int     `json:"currentStreak"`        // Текущий стрик
	LongestStreak        int     `json:"longestStreak"`        // Рекорд, всегда >= CurrentStreak
	TotalDaysClaimed     int     `json:"totalDaysClaimed"`     // Сколько всего дней получена награда
	StreakProtectionUsed bool    `json:"streakProtectionUsed"` // Защита на неделе израсходована
	WeekStartDate        *string `json:"weekStartDate"`        // Воскресенье недели, к которой относится флаг защиты
}

// DefaultState возвращает состояние нового игрока.
func DefaultState() *State {
	return &State{}
}

// Clone возвращает независимую копию.
func (s *State) Clone() *State {
	c := *s
	if s.LastClaimDate != nil {
		v := *s.LastClaimDate
		c.LastClaimDate = &v
	}
	if s.WeekStartDate != nil {
		v := *s.WeekStartDate
		c.WeekStartDate = &v
	}
	return &c
}

// Sanitize сбрасывает испорченную запись к значениям по умолчанию.
// Возвращает true, если сброс был.
func (s *State) Sanitize() bool {
	bad := s.CurrentStreak < 0 ||
		s.LongestStreak < 0 ||
		s.TotalDaysClaimed < 0 ||
		s.LongestStreak < s.CurrentStreak ||
		(s.LastClaimDate != nil && !calendar.ValidKey(*s.LastClaimDate)) ||
		(s.WeekStartDate != nil && !calendar.ValidKey(*s.WeekStartDate))
	if bad {
		*s = State{}
	}
	return bad
}

// Preview — награда, которую игрок получит сегодня (только для показа).
type Preview struct {
	RewardScheduleEntry
	Claimed bool // Сегодня уже получена
}

// ClaimResult — итог успешного получения награды.
type ClaimResult struct {
	Coins              int64   // floor(BaseCoins * Multiplier), без бонуса событий
	BonusLabel         string  // Подпись дня, может быть пустой
	BaseCoins          int64   // Базовая награда по таблице
	Multiplier         float64 // Множитель стрика (по стрику до получения)
	NewStreak          int
	PreviousStreak     int
	ProtectionConsumed bool // Пропущенный день закрыт защитой
}

// ClaimOutcome — результат Service.Claim с учётом событий.
type ClaimOutcome struct {
	*ClaimResult
	EventMultiplier float64
	FinalCoins      int64 // Зачислено на счёт
}

// Status — данные для команды !огонек.
type Status struct {
	State               *State
	Preview             Preview
	Expired             bool    // Стрик только что сгорел
	ProtectionAvailable bool    // Недельная защита ещё не потрачена
	NextMultiplier      float64 // Множитель стрика для ближайшего получения
	EventMultiplier     float64 // Множитель ежедневной награды от событий
}
