package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestTodayKeyUsesLocation(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	// 22:30 UTC — уже следующий день по Москве
	now := time.Date(2026, 10, 17, 22, 30, 0, 0, time.UTC)
	if got := TodayKey(now); got != "2026-10-17" {
		t.Fatalf("utc key = %s", got)
	}
	if got := TodayKey(now.In(msk)); got != "2026-10-18" {
		t.Fatalf("msk key = %s", got)
	}
}

func TestWeekStartKey(t *testing.T) {
	cases := []struct {
		now  time.Time
		want string
	}{
		{time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), "2026-10-18"},   // воскресенье
		{time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC), "2026-10-18"}, // воскресенье вечером
		{time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC), "2026-10-18"},   // понедельник
		{time.Date(2026, 10, 24, 23, 0, 0, 0, time.UTC), "2026-10-18"},  // суббота
		{time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), "2025-12-28"},    // через границу года
	}
	for _, c := range cases {
		if got := WeekStartKey(c.now); got != c.want {
			t.Errorf("WeekStartKey(%s) = %s, want %s", c.now, got, c.want)
		}
	}
}

func TestWeekStartOfKey(t *testing.T) {
	got, err := WeekStartOfKey("2027-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2026-12-27" {
		t.Fatalf("got %s", got)
	}
	if _, err := WeekStartOfKey("01.01.2027"); !errors.Is(err, ErrInvalidDateKey) {
		t.Fatalf("expected ErrInvalidDateKey, got %v", err)
	}
}

func TestDayGap(t *testing.T) {
	cases := []struct {
		from, to string
		want     int
	}{
		{"2026-10-18", "2026-10-18", 0},
		{"2026-10-17", "2026-10-18", 1},
		{"2026-10-16", "2026-10-18", 2},
		{"2026-10-18", "2026-10-15", -3},
		{"2025-12-31", "2026-01-01", 1},
		{"2024-02-28", "2024-03-01", 2}, // високосный год
		{"2026-03-28", "2026-03-30", 2}, // переход на летнее время в Европе
	}
	for _, c := range cases {
		got, err := DayGap(c.from, c.to)
		if err != nil {
			t.Fatalf("DayGap(%s, %s): %v", c.from, c.to, err)
		}
		if got != c.want {
			t.Errorf("DayGap(%s, %s) = %d, want %d", c.from, c.to, got, c.want)
		}
	}

	if _, err := DayGap("garbage", "2026-10-18"); !errors.Is(err, ErrInvalidDateKey) {
		t.Fatalf("expected ErrInvalidDateKey, got %v", err)
	}
}

func TestIsConsecutiveDay(t *testing.T) {
	if !IsConsecutiveDay("2026-10-17", "2026-10-18") {
		t.Fatal("expected consecutive")
	}
	if IsConsecutiveDay("2026-10-18", "2026-10-18") {
		t.Fatal("same day is not consecutive")
	}
	if IsConsecutiveDay("2026-10-18", "2026-10-17") {
		t.Fatal("backwards is not consecutive")
	}
	if IsConsecutiveDay("", "2026-10-17") {
		t.Fatal("invalid key is not consecutive")
	}
}

func TestAddDays(t *testing.T) {
	got, err := AddDays("2026-12-31", 1)
	if err != nil || got != "2027-01-01" {
		t.Fatalf("AddDays = %s, %v", got, err)
	}
}

func TestFixedClock(t *testing.T) {
	c := NewFixedClock(time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC))
	c.AddDays(2)
	if got := TodayKey(c.Now()); got != "2026-10-20" {
		t.Fatalf("got %s", got)
	}
}
