package economy

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"serotonyl.ru/reward-bot/internal/common"
	"serotonyl.ru/reward-bot/internal/db/sqlite"
)

func newTestService(t *testing.T) (*Service, *SQLiteRepository) {
	t.Helper()
	db, err := sqlite.Open(sqlite.MemoryPath)
	if err != nil {
		t.Fatalf("sqlite.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	repo := NewSQLiteRepository(db)
	return NewService(repo, time.UTC), repo
}

func TestBalanceStartsAtZero(t *testing.T) {
	svc, _ := newTestService(t)
	got, err := svc.GetBalance(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if got != 0 {
		t.Fatalf("balance = %d, want 0", got)
	}
}

func TestAddAndDeduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.AddBalance(ctx, 1, Entry{Amount: 55, TxType: TxTypeDailyReward, Description: "День 7"}); err != nil {
		t.Fatalf("AddBalance: %v", err)
	}
	if err := svc.DeductBalance(ctx, 1, Entry{Amount: 20, TxType: TxTypeStreakProtection, Description: "Защита"}); err != nil {
		t.Fatalf("DeductBalance: %v", err)
	}

	stats, err := svc.GetStats(ctx, 1)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Balance != 35 || stats.TotalEarned != 55 || stats.TotalSpent != 20 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestDeductInsufficient(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	err := svc.DeductBalance(ctx, 1, Entry{Amount: 5, TxType: TxTypeStreakProtection})
	if !errors.Is(err, common.ErrInsufficientBalance) {
		t.Fatalf("no balance row: err = %v", err)
	}

	_ = svc.AddBalance(ctx, 1, Entry{Amount: 3, TxType: TxTypeAdminGive})
	err = svc.DeductBalance(ctx, 1, Entry{Amount: 5, TxType: TxTypeStreakProtection})
	if !errors.Is(err, common.ErrInsufficientBalance) {
		t.Fatalf("low balance: err = %v", err)
	}
	if got, _ := svc.GetBalance(ctx, 1); got != 3 {
		t.Fatalf("balance changed after failed deduct: %d", got)
	}
}

func TestInvalidAmount(t *testing.T) {
	svc, _ := newTestService(t)
	for _, amount := range []int64{0, -10} {
		if err := svc.AddBalance(context.Background(), 1, Entry{Amount: amount}); !errors.Is(err, common.ErrInvalidAmount) {
			t.Errorf("AddBalance(%d) err = %v", amount, err)
		}
	}
}

func TestTransactionHistory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	empty, err := svc.GetTransactionHistory(ctx, 1)
	if err != nil {
		t.Fatalf("GetTransactionHistory: %v", err)
	}
	if !strings.Contains(empty, "нет транзакций") {
		t.Fatalf("empty history = %q", empty)
	}

	_ = svc.AddBalance(ctx, 1, Entry{Amount: 10, TxType: TxTypeDailyReward, Description: "День 1"})
	_ = svc.DeductBalance(ctx, 1, Entry{Amount: 4, TxType: TxTypeStreakProtection, Description: "Защита"})

	history, err := svc.GetTransactionHistory(ctx, 1)
	if err != nil {
		t.Fatalf("GetTransactionHistory: %v", err)
	}
	for _, want := range []string{"+10 монет", "-4 монеты", "День 1", "Защита"} {
		if !strings.Contains(history, want) {
			t.Errorf("history missing %q:\n%s", want, history)
		}
	}
}
