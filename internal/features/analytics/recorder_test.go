package analytics

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
)

func TestLogRecorder(t *testing.T) {
	logger, hook := test.NewNullLogger()
	r := NewLogRecorder(logger)

	err := r.Record(context.Background(), EventDailyRewardClaimed, map[string]any{
		"streakCount": 7,
		"coinsEarned": int64(55),
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("no log entry")
	}
	if entry.Data["event"] != EventDailyRewardClaimed {
		t.Errorf("event = %v", entry.Data["event"])
	}
	if entry.Data["streakCount"] != 7 || entry.Data["coinsEarned"] != int64(55) {
		t.Errorf("data = %v", entry.Data)
	}
}

func TestMessageJSON(t *testing.T) {
	msg := Message{
		Event:      EventDailyRewardClaimed,
		Params:     map[string]any{"streakCount": 3},
		OccurredAt: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"event":"daily_reward_claimed","params":{"streakCount":3},"occurred_at":"2026-10-19T09:00:00Z"}`
	if string(raw) != want {
		t.Fatalf("json = %s", raw)
	}
}
