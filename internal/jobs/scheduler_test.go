package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"serotonyl.ru/reward-bot/internal/common"
)

type fakeStreaks struct {
	expired   int
	reminded  int
	expireErr error
	gotSender common.Sender
}

func (f *fakeStreaks) ExpireAll(context.Context) (int, error) {
	f.expired++
	return 3, f.expireErr
}

func (f *fakeStreaks) SendReminders(_ context.Context, sender common.Sender) (int, error) {
	f.reminded++
	f.gotSender = sender
	return 1, nil
}

type nopSender struct{}

func (nopSender) Send(context.Context, int64, string) error { return nil }

func TestSchedulerRegistersJobs(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)

	withReminders := NewScheduler(&fakeStreaks{}, nopSender{}, loc, true)
	if err := withReminders.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer withReminders.Stop()
	if got := len(withReminders.Entries()); got != 2 {
		t.Fatalf("entries = %d, want 2", got)
	}

	without := NewScheduler(&fakeStreaks{}, nopSender{}, loc, false)
	if err := without.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer without.Stop()
	if got := len(without.Entries()); got != 1 {
		t.Fatalf("entries = %d, want 1", got)
	}
}

func TestSchedulerExpireRunsAfterLocalMidnight(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	s := NewScheduler(&fakeStreaks{}, nopSender{}, loc, false)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	next := s.Entries()[0].Schedule.Next(time.Date(2026, 10, 19, 23, 0, 0, 0, loc))
	want := time.Date(2026, 10, 20, 0, 5, 0, 0, loc)
	if !next.Equal(want) {
		t.Fatalf("next run = %v, want %v", next, want)
	}
}

func TestRunJobs(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	fake := &fakeStreaks{}
	sender := nopSender{}
	s := NewScheduler(fake, sender, time.UTC, true)

	s.runReminders(context.Background())
	if fake.reminded != 1 || fake.gotSender != sender {
		t.Fatalf("reminders not called with scheduler sender: %+v", fake)
	}

	s.runExpire(context.Background())
	if fake.expired != 1 {
		t.Fatalf("expire calls = %d", fake.expired)
	}

	fake.expireErr = errors.New("db down")
	s.runExpire(context.Background())
	if entry := hook.LastEntry(); entry == nil || entry.Message != "[CRON] Ошибка сброса" {
		t.Fatalf("ошибка сброса должна логироваться, последняя запись: %+v", entry)
	}
}
