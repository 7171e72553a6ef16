package admin

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"serotonyl.ru/reward-bot/internal/calendar"
	"serotonyl.ru/reward-bot/internal/common"
	"serotonyl.ru/reward-bot/internal/config"
	"serotonyl.ru/reward-bot/internal/db/sqlite"
	"serotonyl.ru/reward-bot/internal/features/economy"
	"serotonyl.ru/reward-bot/internal/features/events"
)

const (
	adminID  int64 = 42
	password       = "correct horse"
)

var (
	hashOnce sync.Once
	testHash string
)

func passwordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := HashPassword(password)
		if err != nil {
			t.Fatalf("HashPassword: %v", err)
		}
		testHash = h
	})
	return testHash
}

func newTestService(t *testing.T) (*Service, *calendar.FixedClock) {
	t.Helper()
	clock := calendar.NewFixedClock(time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC))
	cfg := &config.Config{AdminIDs: []int64{adminID}, AdminPasswordHash: passwordHash(t)}
	return NewService(NewMemoryRepository(), cfg, clock), clock
}

func TestHashAndVerify(t *testing.T) {
	h := passwordHash(t)
	if !strings.HasPrefix(h, "$argon2id$v=19$m=65536,t=3,p=2$") {
		t.Fatalf("hash = %s", h)
	}
	if !VerifyArgon2id(password, h) {
		t.Fatal("correct password rejected")
	}
	if VerifyArgon2id("wrong", h) {
		t.Fatal("wrong password accepted")
	}
	if VerifyArgon2id(password, "garbage") {
		t.Fatal("malformed hash accepted")
	}
}

func TestLoginAndSession(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	if err := svc.RequireSession(ctx, adminID); !errors.Is(err, common.ErrSessionExpired) {
		t.Fatalf("before login err = %v", err)
	}
	if err := svc.VerifyPassword(ctx, adminID, password); err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if err := svc.RequireSession(ctx, adminID); err != nil {
		t.Fatalf("RequireSession: %v", err)
	}

	clock.Set(clock.Now().Add(SessionTTL))
	if err := svc.RequireSession(ctx, adminID); !errors.Is(err, common.ErrSessionExpired) {
		t.Fatalf("after ttl err = %v", err)
	}
}

func TestNotAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.VerifyPassword(context.Background(), 7, password); !errors.Is(err, common.ErrNotAdmin) {
		t.Fatalf("err = %v", err)
	}
}

func TestBruteForceLimit(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	for i := 0; i < MaxLoginAttempts; i++ {
		if err := svc.VerifyPassword(ctx, adminID, "nope"); !errors.Is(err, common.ErrWrongPassword) {
			t.Fatalf("attempt %d err = %v", i, err)
		}
	}
	if err := svc.VerifyPassword(ctx, adminID, password); !errors.Is(err, common.ErrTooManyAttempts) {
		t.Fatalf("locked err = %v", err)
	}

	clock.Set(clock.Now().Add(AttemptsWindow + time.Minute))
	if err := svc.VerifyPassword(ctx, adminID, password); err != nil {
		t.Fatalf("after window err = %v", err)
	}
}

type recordingSender struct {
	texts []string
}

func (s *recordingSender) Send(_ context.Context, _ int64, text string) error {
	s.texts = append(s.texts, text)
	return nil
}

func (s *recordingSender) last() string {
	if len(s.texts) == 0 {
		return ""
	}
	return s.texts[len(s.texts)-1]
}

func TestHandlerEventCommands(t *testing.T) {
	svc, clock := newTestService(t)
	db, err := sqlite.Open(sqlite.MemoryPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	eventsSvc := events.NewService(events.NewSQLiteRepository(db), events.NewResolver(), clock)
	sender := &recordingSender{}
	h := NewHandler(svc, eventsSvc, economy.NewService(economy.NewSQLiteRepository(db), time.UTC), sender, time.UTC)
	ctx := context.Background()

	if h.HandleAdminMessage(ctx, 7, 7, "/event_list") {
		t.Fatal("non-admin message must not be handled")
	}

	h.HandleAdminMessage(ctx, adminID, adminID, "/event_list")
	if !strings.Contains(sender.last(), "/login") {
		t.Fatalf("reply = %q", sender.last())
	}

	// Пароль следующим сообщением
	h.HandleAdminMessage(ctx, adminID, adminID, "/admin")
	if !h.HandleAdminMessage(ctx, adminID, adminID, password) {
		t.Fatal("password message not handled")
	}
	if !strings.Contains(sender.last(), "Доступ открыт") {
		t.Fatalf("login reply = %q", sender.last())
	}

	h.HandleAdminMessage(ctx, adminID, adminID, "/event_add 2026-10-19T10:00 2026-10-20T10:00 daily=2 Двойной день")
	if !strings.Contains(sender.last(), "Событие добавлено") {
		t.Fatalf("add reply = %q", sender.last())
	}
	list := eventsSvc.ListSpecial()
	if len(list) != 1 || list[0].Name != "Двойной день" {
		t.Fatalf("specials = %+v", list)
	}
	if got := eventsSvc.Current().DailyRewardMultiplier; got != 2 {
		t.Fatalf("daily = %v", got)
	}

	h.HandleAdminMessage(ctx, adminID, adminID, "/event_list")
	if !strings.Contains(sender.last(), list[0].ID) {
		t.Fatalf("list reply = %q", sender.last())
	}

	h.HandleAdminMessage(ctx, adminID, adminID, "/event_del "+list[0].ID)
	if !strings.Contains(sender.last(), "удалено") {
		t.Fatalf("del reply = %q", sender.last())
	}
	h.HandleAdminMessage(ctx, adminID, adminID, "/event_del "+list[0].ID)
	if !strings.Contains(sender.last(), common.ErrEventNotFound.Error()) {
		t.Fatalf("second del reply = %q", sender.last())
	}

	if h.HandleAdminMessage(ctx, adminID, adminID, "!награда") {
		t.Fatal("player command must fall through")
	}
}

func TestHandlerCoinCommands(t *testing.T) {
	svc, clock := newTestService(t)
	db, err := sqlite.Open(sqlite.MemoryPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ledger := economy.NewSQLiteRepository(db)
	eventsSvc := events.NewService(events.NewSQLiteRepository(db), events.NewResolver(), clock)
	sender := &recordingSender{}
	h := NewHandler(svc, eventsSvc, economy.NewService(ledger, time.UTC), sender, time.UTC)
	ctx := context.Background()

	h.HandleAdminMessage(ctx, adminID, adminID, "/give 42 50")
	if !strings.Contains(sender.last(), "/login") {
		t.Fatalf("без сессии ответ = %q", sender.last())
	}

	h.HandleAdminMessage(ctx, adminID, adminID, "/login "+password)
	h.HandleAdminMessage(ctx, adminID, adminID, "/give 42 50")
	if !strings.Contains(sender.last(), "Выдано") {
		t.Fatalf("give reply = %q", sender.last())
	}
	h.HandleAdminMessage(ctx, adminID, adminID, "/take 42 20")
	if !strings.Contains(sender.last(), "Списано") {
		t.Fatalf("take reply = %q", sender.last())
	}
	if got, _ := ledger.GetBalance(ctx, 42); got != 30 {
		t.Fatalf("balance = %d, want 30", got)
	}

	h.HandleAdminMessage(ctx, adminID, adminID, "/take 42 100")
	if !strings.Contains(sender.last(), common.ErrInsufficientBalance.Error()) {
		t.Fatalf("overdraft reply = %q", sender.last())
	}
	h.HandleAdminMessage(ctx, adminID, adminID, "/give 42 -5")
	if !strings.Contains(sender.last(), common.ErrInvalidAmount.Error()) {
		t.Fatalf("negative reply = %q", sender.last())
	}
	if got, _ := ledger.GetBalance(ctx, 42); got != 30 {
		t.Fatalf("balance after rejected commands = %d", got)
	}
}
