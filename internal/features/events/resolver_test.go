package events

import (
	"testing"
	"time"
)

func at(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestWeekendWindow(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
		active    bool
	}{
		{"sunday noon", at(2026, 10, 18, 12, 0), at(2026, 10, 16, 18, 0), true},
		{"friday before six", at(2026, 10, 16, 17, 59), at(2026, 10, 9, 18, 0), false},
		{"friday at six", at(2026, 10, 16, 18, 0), at(2026, 10, 16, 18, 0), true},
		{"monday before end", at(2026, 10, 19, 5, 59), at(2026, 10, 16, 18, 0), true},
		{"monday at end", at(2026, 10, 19, 6, 0), at(2026, 10, 16, 18, 0), false},
		{"wednesday", at(2026, 10, 21, 12, 0), at(2026, 10, 16, 18, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := WeekendWindow(tt.now)
			if !start.Equal(tt.wantStart) {
				t.Fatalf("start = %v, want %v", start, tt.wantStart)
			}
			if got := !tt.now.Before(start) && tt.now.Before(end); got != tt.active {
				t.Fatalf("active = %v, want %v (window %v – %v)", got, tt.active, start, end)
			}
		})
	}
}

func TestWeekendWindowAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("no tzdata: %v", err)
	}
	// В ночь на 25.10.2026 часы переводятся назад
	start, end := WeekendWindow(time.Date(2026, 10, 25, 12, 0, 0, 0, loc))
	if start.Hour() != 18 || start.Weekday() != time.Friday {
		t.Fatalf("start = %v", start)
	}
	if end.Hour() != 6 || end.Weekday() != time.Monday {
		t.Fatalf("end = %v", end)
	}
	if got := end.Sub(start); got != 61*time.Hour {
		t.Fatalf("window = %v, want 61h", got)
	}
}

func TestHolidayWindows(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name  string
		now   time.Time
		types []EventType
	}{
		{"halloween weekday", at(2026, 10, 30, 12, 0), []EventType{TypeHalloween}},
		{"halloween last moment", at(2026, 11, 1, 23, 59), []EventType{TypeWeekendBoost, TypeHalloween}},
		{"after halloween", at(2026, 11, 2, 7, 0), nil},
		{"summer", at(2026, 7, 7, 12, 0), []EventType{TypeSummer}},
		{"winter", at(2026, 12, 31, 12, 0), []EventType{TypeHoliday}},
		{"new year", at(2027, 1, 1, 0, 0), []EventType{TypeNewYear}},
		{"plain day", at(2026, 3, 11, 12, 0), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.ActiveEvents(tt.now)
			if len(got) != len(tt.types) {
				t.Fatalf("active = %+v, want types %v", got, tt.types)
			}
			want := map[EventType]bool{}
			for _, typ := range tt.types {
				want[typ] = true
			}
			for _, ev := range got {
				if !want[ev.Type] {
					t.Fatalf("unexpected event %s", ev.Type)
				}
			}
		})
	}
}

func TestAggregateBonus(t *testing.T) {
	r := NewResolver()
	now := at(2026, 10, 30, 20, 0) // пятница вечером, Хэллоуин

	if got := r.CurrentProductionMultiplier(now); got != 2.25 {
		t.Errorf("production = %v, want 2.25", got)
	}
	if got := r.CurrentDailyRewardMultiplier(now); got != 1.25 {
		t.Errorf("daily = %v, want 1.25", got)
	}
	if got := r.CurrentLabBonusMultiplier(now); got != 1.5 {
		t.Errorf("lab = %v, want 1.5", got)
	}
	if got := r.CurrentCoinBonus(now); got != 50 {
		t.Errorf("coins = %v, want 50", got)
	}
}

func TestAggregateBonusEmpty(t *testing.T) {
	if got := AggregateBonus(nil, FieldDailyReward); got != 1 {
		t.Errorf("empty multiplier = %v", got)
	}
	if got := AggregateBonus(nil, FieldCoinBonus); got != 0 {
		t.Errorf("empty coins = %v", got)
	}
}

func TestSpecialEventsStack(t *testing.T) {
	r := NewResolver()
	now := at(2026, 3, 11, 12, 0)
	r.AddSpecial(GameEvent{ID: "a", Type: TypeSpecial, Start: now.Add(-time.Hour), End: now.Add(time.Hour),
		Bonuses: Bonuses{ProductionMultiplier: f64(2)}})
	r.AddSpecial(GameEvent{ID: "b", Type: TypeSpecial, Start: now.Add(-time.Hour), End: now.Add(time.Hour),
		Bonuses: Bonuses{ProductionMultiplier: f64(2), CoinBonus: f64(10)}})
	r.AddSpecial(GameEvent{ID: "later", Type: TypeSpecial, Start: now.Add(time.Hour), End: now.Add(2 * time.Hour),
		Bonuses: Bonuses{ProductionMultiplier: f64(10)}})

	if got := r.CurrentProductionMultiplier(now); got != 4 {
		t.Fatalf("production = %v, want 4", got)
	}
	if !r.HasActiveEvent(now) {
		t.Fatal("HasActiveEvent = false")
	}

	if !r.RemoveSpecial("a") || r.RemoveSpecial("a") {
		t.Fatal("RemoveSpecial must succeed once")
	}
	if got := r.CurrentProductionMultiplier(now); got != 2 {
		t.Fatalf("production after remove = %v, want 2", got)
	}
	if got := len(r.Specials()); got != 2 {
		t.Fatalf("specials = %d", got)
	}
}

func TestAggregateBonusOrderIndependent(t *testing.T) {
	list := []GameEvent{
		{Bonuses: Bonuses{DailyRewardMultiplier: f64(1.1)}},
		{Bonuses: Bonuses{DailyRewardMultiplier: f64(1.3)}},
		{Bonuses: Bonuses{CoinBonus: f64(5)}},
		{Bonuses: Bonuses{DailyRewardMultiplier: f64(1.7)}},
	}
	reversed := []GameEvent{list[3], list[2], list[1], list[0]}
	rotated := []GameEvent{list[1], list[3], list[0], list[2]}

	want := AggregateBonus(list, FieldDailyReward)
	for _, l := range [][]GameEvent{reversed, rotated} {
		if got := AggregateBonus(l, FieldDailyReward); got != want {
			t.Fatalf("order changed the result: %v != %v", got, want)
		}
	}
}
