package app

import (
	"context"
	"path/filepath"
	"testing"

	"serotonyl.ru/reward-bot/internal/config"
	"serotonyl.ru/reward-bot/internal/features/analytics"
	"serotonyl.ru/reward-bot/internal/features/economy"
	"serotonyl.ru/reward-bot/internal/lock"
)

func TestOpenStorageSQLite(t *testing.T) {
	cfg := &config.Config{
		StorageDriver: config.StorageSQLite,
		SQLitePath:    filepath.Join(t.TempDir(), "data", "rewards.db"),
	}
	ctx := context.Background()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		t.Fatalf("openStorage: %v", err)
	}
	defer store.close()

	if err := store.economy.AddBalance(ctx, 1, economy.Entry{Amount: 10, TxType: economy.TxTypeDailyReward}); err != nil {
		t.Fatalf("AddBalance: %v", err)
	}
	got, err := store.economy.GetBalance(ctx, 1)
	if err != nil || got != 10 {
		t.Fatalf("GetBalance = %d, %v", got, err)
	}

	st, err := store.streaks.Get(ctx, 1)
	if err != nil || st.CurrentStreak != 0 {
		t.Fatalf("Get = %+v, %v", st, err)
	}

	list, err := store.events.List(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("List = %v, %v", list, err)
	}
}

func TestOpenStorageUnknownDriver(t *testing.T) {
	if _, err := openStorage(context.Background(), &config.Config{StorageDriver: "mongo"}); err == nil {
		t.Fatal("ожидалась ошибка для неизвестного драйвера")
	}
}

func TestFallbacksWithoutExternalServices(t *testing.T) {
	cfg := &config.Config{}

	locker, closeLocker, err := newLocker(context.Background(), cfg)
	if err != nil {
		t.Fatalf("newLocker: %v", err)
	}
	defer closeLocker()
	if _, ok := locker.(*lock.Memory); !ok {
		t.Fatalf("locker = %T, want *lock.Memory", locker)
	}

	recorder, closeRecorder, err := newRecorder(cfg)
	if err != nil {
		t.Fatalf("newRecorder: %v", err)
	}
	defer closeRecorder()
	if _, ok := recorder.(*analytics.LogRecorder); !ok {
		t.Fatalf("recorder = %T, want *analytics.LogRecorder", recorder)
	}
}

func TestMigrationsAreOrdered(t *testing.T) {
	for i, m := range migrations {
		if m.Version != i+1 {
			t.Fatalf("migration %d has version %d", i, m.Version)
		}
		if m.SQL == "" {
			t.Fatalf("migration %d is empty", m.Version)
		}
	}
}
