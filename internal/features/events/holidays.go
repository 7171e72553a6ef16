package events

import (
	"fmt"
	"time"
)

// Окно выходных: с пятницы 18:00 до понедельника 06:00 по местному времени.
const (
	weekendStartHour = 18
	weekendEndHour   = 6
)

// WeekendWindow возвращает окно выходных, начавшееся в последнюю пятницу
// 18:00 не позже now. Границы строятся через time.Date, поэтому переход
// на летнее время не сдвигает часы.
func WeekendWindow(now time.Time) (start, end time.Time) {
	y, m, d := now.Date()
	loc := now.Location()

	back := (int(now.Weekday()) - int(time.Friday) + 7) % 7
	start = time.Date(y, m, d-back, weekendStartHour, 0, 0, 0, loc)
	if start.After(now) {
		// Пятница сегодня, но 18:00 ещё не наступило
		start = time.Date(y, m, d-back-7, weekendStartHour, 0, 0, 0, loc)
	}
	sy, sm, sd := start.Date()
	end = time.Date(sy, sm, sd+3, weekendEndHour, 0, 0, 0, loc)
	return start, end
}

func weekendEvent(now time.Time) GameEvent {
	start, end := WeekendWindow(now)
	return GameEvent{
		ID:          "weekend-" + start.Format("2006-01-02"),
		Type:        TypeWeekendBoost,
		Name:        "Бонус выходных",
		Description: "Больше наград с вечера пятницы до утра понедельника",
		Icon:        "🎉",
		Start:       start,
		End:         end,
		Bonuses: Bonuses{
			ProductionMultiplier:  f64(1.5),
			DailyRewardMultiplier: f64(1.25),
		},
	}
}

// holiday — ежегодное событие с фиксированной датой начала.
type holiday struct {
	month    time.Month
	day      int
	duration int // дней
	template GameEvent
}

var holidays = []holiday{
	{
		month: time.January, day: 1, duration: 3,
		template: GameEvent{
			Type: TypeNewYear, Name: "Новый год", Icon: "🎆",
			Description: "Праздничные награды первые три дня года",
			Bonuses: Bonuses{
				ProductionMultiplier:  f64(2),
				CoinBonus:             f64(100),
				DailyRewardMultiplier: f64(2),
			},
		},
	},
	{
		month: time.July, day: 1, duration: 7,
		template: GameEvent{
			Type: TypeSummer, Name: "Летний фестиваль", Icon: "☀️",
			Description: "Неделя летних бонусов",
			Bonuses: Bonuses{
				ProductionMultiplier: f64(1.3),
				LabBonusMultiplier:   f64(1.25),
			},
		},
	},
	{
		month: time.October, day: 28, duration: 5,
		template: GameEvent{
			Type: TypeHalloween, Name: "Хэллоуин", Icon: "🎃",
			Description: "Жуткие бонусы до начала ноября",
			Bonuses: Bonuses{
				ProductionMultiplier: f64(1.5),
				LabBonusMultiplier:   f64(1.5),
				CoinBonus:            f64(50),
			},
		},
	},
	{
		month: time.December, day: 20, duration: 12,
		template: GameEvent{
			Type: TypeHoliday, Name: "Зимние праздники", Icon: "❄️",
			Description: "Зимние бонусы до конца года",
			Bonuses: Bonuses{
				ProductionMultiplier:  f64(1.25),
				DailyRewardMultiplier: f64(1.5),
			},
		},
	},
}

// HolidayWindows возвращает праздники года year в поясе loc.
func HolidayWindows(year int, loc *time.Location) []GameEvent {
	out := make([]GameEvent, 0, len(holidays))
	for _, h := range holidays {
		ev := h.template
		ev.ID = fmt.Sprintf("%s-%d", h.template.Type, year)
		ev.Start = time.Date(year, h.month, h.day, 0, 0, 0, 0, loc)
		ev.End = time.Date(year, h.month, h.day+h.duration, 0, 0, 0, 0, loc)
		out = append(out, ev)
	}
	return out
}
