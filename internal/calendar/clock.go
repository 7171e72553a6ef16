package calendar

import (
	"sync"
	"time"
)

// Clock — источник текущего времени. Сервисы читают время только через него.
type Clock interface {
	Now() time.Time
}

// SystemClock возвращает системное время в заданном часовом поясе.
type SystemClock struct {
	Location *time.Location
}

// Now возвращает текущее время в s.Location (UTC, если пояс не задан).
func (s SystemClock) Now() time.Time {
	if s.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(s.Location)
}

// FixedClock — управляемые часы для тестов.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock создаёт часы, остановленные на now.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set переводит часы на t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// AddDays переводит часы на n календарных дней вперёд (или назад).
func (c *FixedClock) AddDays(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, n)
}

// LoadLocation загружает часовой пояс, а при ошибке возвращает fallback.
func LoadLocation(name string, fallback *time.Location) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fallback
	}
	return loc
}
