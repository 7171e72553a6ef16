// Package streak — handlers.go обрабатывает команды !награда, !огонек и !защита.
package streak

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reward-bot/internal/common"
	"serotonyl.ru/reward-bot/internal/config"
)

// Handler обрабатывает команды стрик-системы.
type Handler struct {
	service *Service
	sender  common.Sender
	cfg     *config.Config
}

// NewHandler создаёт новый обработчик стрик-команд.
func NewHandler(service *Service, sender common.Sender, cfg *config.Config) *Handler {
	return &Handler{service: service, sender: sender, cfg: cfg}
}

// HandleClaim обрабатывает команду !награда.
//
// Формат ответа:
//
//	🎁 День 7: +66 монет
//	🏆 Weekly Bonus!
//	База 50 × стрик x1.1 × события x1.2
//	🔥 Серия: 7 дней
func (h *Handler) HandleClaim(ctx context.Context, chatID int64, userID int64) {
	out, err := h.service.Claim(ctx, userID)
	if err != nil {
		h.replyError(ctx, chatID, err, "❌ Ошибка получения награды")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎁 День %d: %s\n", out.NewStreak, common.FormatCoinsAmount(out.FinalCoins)))
	if out.BonusLabel != "" {
		sb.WriteString(fmt.Sprintf("🏆 %s\n", out.BonusLabel))
	}
	sb.WriteString(fmt.Sprintf("База %d × стрик %s", out.BaseCoins, common.FormatMultiplier(out.Multiplier)))
	if out.EventMultiplier != 1 {
		sb.WriteString(fmt.Sprintf(" × события %s", common.FormatMultiplier(out.EventMultiplier)))
	}
	sb.WriteString("\n")
	if out.ProtectionConsumed {
		sb.WriteString("🛡 Пропущенный день закрыт защитой стрика\n")
	}
	sb.WriteString(fmt.Sprintf("🔥 Серия: %d %s", out.NewStreak, common.PluralizeDays(out.NewStreak)))

	h.sendMessage(ctx, chatID, sb.String())
}

// HandleOgonek обрабатывает команду !огонек — показывает прогресс стрика.
//
// Формат ответа:
//
//	🔥 Твой огонек
//	Текущая серия: 8 дней
//	Лучшая серия: 12 дней
//	Всего наград: 30
//
//	Сегодня: день 2 цикла, 15 монет × x1.2
//	🛡 Защита: доступна
func (h *Handler) HandleOgonek(ctx context.Context, chatID int64, userID int64) {
	status, err := h.service.Status(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения стрика")
		h.sendMessage(ctx, chatID, "❌ Ошибка получения данных стрика")
		return
	}
	h.sendMessage(ctx, chatID, FormatStatus(status))
}

// FormatStatus собирает текст ответа на !огонек.
func FormatStatus(status *Status) string {
	st := status.State
	var sb strings.Builder

	sb.WriteString("🔥 Твой огонек\n\n")
	if status.Expired {
		sb.WriteString("💨 Огонек погас: пропущено больше одного дня\n")
	}
	sb.WriteString(fmt.Sprintf("Текущая серия: %d %s\n", st.CurrentStreak, common.PluralizeDays(st.CurrentStreak)))
	sb.WriteString(fmt.Sprintf("Лучшая серия: %d %s\n", st.LongestStreak, common.PluralizeDays(st.LongestStreak)))
	sb.WriteString(fmt.Sprintf("Всего наград: %d\n\n", st.TotalDaysClaimed))

	p := status.Preview
	if p.Claimed {
		sb.WriteString("✅ Награда за сегодня получена, приходи завтра\n")
	} else {
		sb.WriteString(fmt.Sprintf("Сегодня: день %d цикла, %s × %s",
			p.DayPosition, common.FormatBalance(p.BaseCoins), common.FormatMultiplier(status.NextMultiplier)))
		if status.EventMultiplier != 1 {
			sb.WriteString(fmt.Sprintf(" × события %s", common.FormatMultiplier(status.EventMultiplier)))
		}
		if p.BonusLabel != "" {
			sb.WriteString(" (" + p.BonusLabel + ")")
		}
		sb.WriteString("\n")
	}

	if status.ProtectionAvailable {
		sb.WriteString("🛡 Защита: доступна")
	} else {
		sb.WriteString("🛡 Защита: использована на этой неделе")
	}
	return sb.String()
}

// HandleProtect обрабатывает команду !защита.
func (h *Handler) HandleProtect(ctx context.Context, chatID int64, userID int64) {
	if _, err := h.service.UseProtection(ctx, userID); err != nil {
		h.replyError(ctx, chatID, err, "❌ Ошибка включения защиты")
		return
	}

	text := "🛡 Недельная защита стрика потрачена"
	if h.cfg.StreakProtectionPrice > 0 {
		text += fmt.Sprintf("\nСписано: %s", common.FormatBalance(h.cfg.StreakProtectionPrice))
	}
	h.sendMessage(ctx, chatID, text)
}

func (h *Handler) replyError(ctx context.Context, chatID int64, err error, fallback string) {
	if IsUserError(err) {
		h.sendMessage(ctx, chatID, "❌ "+err.Error())
		return
	}
	log.WithError(err).Error(fallback)
	h.sendMessage(ctx, chatID, fallback)
}

func (h *Handler) sendMessage(ctx context.Context, chatID int64, text string) {
	if err := h.sender.Send(ctx, chatID, text); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
