package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reward-bot/internal/common"
)

// Handler обрабатывает команду !события.
type Handler struct {
	service *Service
	sender  common.Sender
	loc     *time.Location
}

// NewHandler создаёт обработчик команд событий.
func NewHandler(service *Service, sender common.Sender, loc *time.Location) *Handler {
	return &Handler{service: service, sender: sender, loc: loc}
}

// HandleEvents показывает активные события и суммарные бонусы.
//
// Формат ответа:
//
//	🎪 Активные события:
//
//	🎉 Бонус выходных (до 20.10.2026 06:00)
//	   производство x1.5, ежедневная награда x1.25
//
//	Итого: ежедневная награда x1.25, производство x1.5
func (h *Handler) HandleEvents(ctx context.Context, chatID int64) {
	h.sendMessage(ctx, chatID, FormatSummary(h.service.Current(), h.loc))
}

// FormatSummary собирает текст ответа на !события.
func FormatSummary(sum Summary, loc *time.Location) string {
	if len(sum.Events) == 0 {
		return "🎪 Сейчас нет активных событий"
	}

	var sb strings.Builder
	sb.WriteString("🎪 Активные события:\n\n")
	for _, ev := range sum.Events {
		sb.WriteString(fmt.Sprintf("%s %s (до %s)\n", ev.Icon, ev.Name, common.FormatDateTime(ev.End, loc)))
		if line := FormatBonuses(ev.Bonuses); line != "" {
			sb.WriteString("   " + line + "\n")
		}
	}

	sb.WriteString(fmt.Sprintf("\nИтого: ежедневная награда %s, производство %s, лаборатория %s",
		common.FormatMultiplier(sum.DailyRewardMultiplier),
		common.FormatMultiplier(sum.ProductionMultiplier),
		common.FormatMultiplier(sum.LabBonusMultiplier),
	))
	if sum.CoinBonus > 0 {
		sb.WriteString(fmt.Sprintf(", +%g к покупкам монет", sum.CoinBonus))
	}
	return sb.String()
}

// FormatBonuses перечисляет бонусы события через запятую.
func FormatBonuses(b Bonuses) string {
	var parts []string
	if b.ProductionMultiplier != nil {
		parts = append(parts, "производство "+common.FormatMultiplier(*b.ProductionMultiplier))
	}
	if b.DailyRewardMultiplier != nil {
		parts = append(parts, "ежедневная награда "+common.FormatMultiplier(*b.DailyRewardMultiplier))
	}
	if b.LabBonusMultiplier != nil {
		parts = append(parts, "лаборатория "+common.FormatMultiplier(*b.LabBonusMultiplier))
	}
	if b.CoinBonus != nil {
		parts = append(parts, fmt.Sprintf("+%g монет", *b.CoinBonus))
	}
	return strings.Join(parts, ", ")
}

func (h *Handler) sendMessage(ctx context.Context, chatID int64, text string) {
	if err := h.sender.Send(ctx, chatID, text); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
