package streak

import (
	"context"
	"strings"
	"testing"
)

func TestHandleClaimReplies(t *testing.T) {
	f := newFixture(t, fixedMultiplier(2))
	sender := &recordingSender{}
	h := NewHandler(f.svc, sender, f.cfg)
	ctx := context.Background()

	h.HandleClaim(ctx, 100, 1)
	got := sender.last()
	for _, want := range []string{"День 1", "+20 монет", "события x2", "Серия: 1 день"} {
		if !strings.Contains(got, want) {
			t.Errorf("reply missing %q:\n%s", want, got)
		}
	}

	h.HandleClaim(ctx, 100, 1)
	if got := sender.last(); !strings.Contains(got, "уже получена") {
		t.Fatalf("repeat reply = %q", got)
	}
}

func TestHandleOgonek(t *testing.T) {
	f := newFixture(t, nil)
	sender := &recordingSender{}
	h := NewHandler(f.svc, sender, f.cfg)
	ctx := context.Background()

	h.HandleOgonek(ctx, 100, 1)
	got := sender.last()
	for _, want := range []string{"Текущая серия: 0 дней", "день 1 цикла", "Защита: доступна"} {
		if !strings.Contains(got, want) {
			t.Errorf("reply missing %q:\n%s", want, got)
		}
	}

	h.HandleProtect(ctx, 100, 1)
	h.HandleOgonek(ctx, 100, 1)
	if got := sender.last(); !strings.Contains(got, "использована на этой неделе") {
		t.Fatalf("reply = %q", got)
	}
}
