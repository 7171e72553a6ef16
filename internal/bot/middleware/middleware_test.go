package middleware

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestRateLimiterSlidingWindow(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	rl := newRateLimiter(2, time.Minute, func() time.Time { return now })

	if !rl.Allow(1) || !rl.Allow(1) {
		t.Fatal("первые два запроса должны проходить")
	}
	if rl.Allow(1) {
		t.Fatal("третий запрос в окне должен блокироваться")
	}
	if !rl.Allow(2) {
		t.Fatal("лимит считается по каждому игроку отдельно")
	}

	now = now.Add(61 * time.Second)
	if !rl.Allow(1) {
		t.Fatal("после окна запрос снова разрешён")
	}
}

func TestRateLimiterSweepDropsIdleUsers(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	rl := newRateLimiter(5, time.Minute, func() time.Time { return now })
	rl.Allow(7)

	now = now.Add(2 * time.Minute)
	rl.sweep()

	if _, ok := rl.requests[7]; ok {
		t.Fatal("запись простаивающего игрока должна удаляться")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := newRateLimiter(0, time.Minute, time.Now)
	for i := 0; i < 100; i++ {
		if !rl.Allow(1) {
			t.Fatal("limit=0 отключает ограничение")
		}
	}
}

func TestTruncateCountsRunes(t *testing.T) {
	if got := Truncate("огонек", 3); got != "ого..." {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate = %q", got)
	}
}

func TestRecoverFromPanicLogs(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	func() {
		defer RecoverFromPanic(log.Fields{"update_id": 42})
		panic("boom")
	}()

	entry := hook.LastEntry()
	if entry == nil || entry.Level != log.ErrorLevel {
		t.Fatalf("ожидалась запись об ошибке, получено %+v", entry)
	}
	if entry.Data["update_id"] != 42 || entry.Data["panic"] != "boom" {
		t.Errorf("поля записи: %v", entry.Data)
	}
}
