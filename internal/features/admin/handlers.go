// Package admin — handlers.go обрабатывает админ-команды в личных сообщениях.
// Поток: /admin или /login → пароль → команды управления событиями и монетами.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reward-bot/internal/common"
	"serotonyl.ru/reward-bot/internal/features/economy"
	"serotonyl.ru/reward-bot/internal/features/events"
)

// Handler обрабатывает админ-команды.
type Handler struct {
	service        *Service
	eventsService  *events.Service
	economyService *economy.Service
	sender         common.Sender
	loc            *time.Location
}

// NewHandler создаёт обработчик админки.
func NewHandler(service *Service, eventsService *events.Service, economyService *economy.Service, sender common.Sender, loc *time.Location) *Handler {
	return &Handler{
		service:        service,
		eventsService:  eventsService,
		economyService: economyService,
		sender:         sender,
		loc:            loc,
	}
}

const helpText = "🛠 Админ-команды:\n" +
	"/event_add <начало> <конец> <бонус=значение>... <название>\n" +
	"   время: 2026-12-31T18:00, бонусы: production, daily, lab, coins\n" +
	"/event_del <id>\n" +
	"/event_list\n" +
	"/give <user_id> <монеты> — выдать монеты\n" +
	"/take <user_id> <монеты> — списать монеты\n" +
	"/logout"

// HandleAdminMessage обрабатывает сообщение в личке.
// Возвращает false, если сообщение не относится к админке.
func (h *Handler) HandleAdminMessage(ctx context.Context, chatID int64, userID int64, text string) bool {
	if !h.service.IsAdmin(userID) {
		return false
	}

	// Ждём пароль после /admin
	if state := h.service.GetState(userID); state != nil && state.State == StateAwaitingPassword {
		h.service.ClearState(userID)
		h.login(ctx, chatID, userID, strings.TrimSpace(text))
		return true
	}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	cmd := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	args := fields[1:]

	switch cmd {
	case "login":
		if len(args) == 0 {
			h.service.SetState(userID, StateAwaitingPassword)
			h.sendMessage(ctx, chatID, "🔐 Введите пароль:")
			return true
		}
		h.login(ctx, chatID, userID, strings.Join(args, " "))
	case "admin":
		if err := h.service.RequireSession(ctx, userID); err != nil {
			h.service.SetState(userID, StateAwaitingPassword)
			h.sendMessage(ctx, chatID, "🔐 Введите пароль для доступа к админ-командам:")
			return true
		}
		h.sendMessage(ctx, chatID, helpText)
	case "logout":
		_ = h.service.Logout(ctx, userID)
		h.sendMessage(ctx, chatID, "👋 Сессия закрыта")
	case "event_add", "event_del", "event_list", "give", "take":
		if err := h.service.RequireSession(ctx, userID); err != nil {
			h.replyError(ctx, chatID, err)
			return true
		}
		switch cmd {
		case "event_add":
			h.handleEventAdd(ctx, chatID, args)
		case "event_del":
			h.handleEventDel(ctx, chatID, args)
		case "give", "take":
			h.handleCoins(ctx, chatID, userID, cmd == "give", args)
		default:
			h.handleEventList(ctx, chatID)
		}
	default:
		return false
	}
	return true
}

func (h *Handler) login(ctx context.Context, chatID, userID int64, password string) {
	if err := h.service.VerifyPassword(ctx, userID, password); err != nil {
		h.replyError(ctx, chatID, err)
		return
	}
	h.sendMessage(ctx, chatID, "✅ Доступ открыт на 24 часа\n\n"+helpText)
}

func (h *Handler) handleEventAdd(ctx context.Context, chatID int64, args []string) {
	in, err := events.ParseSpecialArgs(args, h.loc)
	if err != nil {
		h.sendMessage(ctx, chatID, "❌ "+err.Error())
		return
	}
	ev, err := h.eventsService.AddSpecial(ctx, in)
	if err != nil {
		h.replyError(ctx, chatID, err)
		return
	}
	h.sendMessage(ctx, chatID, fmt.Sprintf("✅ Событие добавлено\n%s", formatEvent(*ev, h.loc)))
}

func (h *Handler) handleEventDel(ctx context.Context, chatID int64, args []string) {
	if len(args) != 1 {
		h.sendMessage(ctx, chatID, "❌ Формат: /event_del <id>")
		return
	}
	if err := h.eventsService.RemoveSpecial(ctx, args[0]); err != nil {
		h.replyError(ctx, chatID, err)
		return
	}
	h.sendMessage(ctx, chatID, "🗑 Событие удалено")
}

func (h *Handler) handleEventList(ctx context.Context, chatID int64) {
	list := h.eventsService.ListSpecial()
	if len(list) == 0 {
		h.sendMessage(ctx, chatID, "📋 Особых событий нет")
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 Особые события (%d):\n\n", len(list)))
	for _, ev := range list {
		sb.WriteString(formatEvent(ev, h.loc))
		sb.WriteString("\n\n")
	}
	h.sendMessage(ctx, chatID, strings.TrimSpace(sb.String()))
}

// handleCoins выдаёт или списывает монеты игроку: /give 123 50, /take 123 50.
func (h *Handler) handleCoins(ctx context.Context, chatID, adminID int64, give bool, args []string) {
	if len(args) != 2 {
		h.sendMessage(ctx, chatID, "❌ Формат: /give <user_id> <монеты> или /take <user_id> <монеты>")
		return
	}
	target, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.sendMessage(ctx, chatID, "❌ user_id должен быть числом")
		return
	}
	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || amount <= 0 {
		h.sendMessage(ctx, chatID, "❌ "+common.ErrInvalidAmount.Error())
		return
	}

	entry := economy.Entry{Amount: amount, Description: fmt.Sprintf("Админ %d", adminID)}
	if give {
		entry.TxType = economy.TxTypeAdminGive
		err = h.economyService.AddBalance(ctx, target, entry)
	} else {
		entry.TxType = economy.TxTypeAdminTake
		err = h.economyService.DeductBalance(ctx, target, entry)
	}
	if err != nil {
		h.replyError(ctx, chatID, err)
		return
	}

	log.WithFields(log.Fields{
		"admin_id": adminID,
		"user_id":  target,
		"amount":   amount,
		"give":     give,
	}).Info("Админ изменил баланс")

	verb := "Выдано"
	if !give {
		verb = "Списано"
	}
	h.sendMessage(ctx, chatID, fmt.Sprintf("✅ %s %s игроку %d", verb, common.FormatCoinsAmount(amount), target))
}

func formatEvent(ev events.GameEvent, loc *time.Location) string {
	return fmt.Sprintf("%s %s\nID: %s\n%s — %s\n%s",
		ev.Icon, ev.Name, ev.ID,
		common.FormatDateTime(ev.Start, loc), common.FormatDateTime(ev.End, loc),
		events.FormatBonuses(ev.Bonuses),
	)
}

func (h *Handler) replyError(ctx context.Context, chatID int64, err error) {
	switch {
	case errors.Is(err, common.ErrSessionExpired):
		h.sendMessage(ctx, chatID, "🔐 Нужна авторизация: /login <пароль>")
	case errors.Is(err, common.ErrNotAdmin),
		errors.Is(err, common.ErrWrongPassword),
		errors.Is(err, common.ErrTooManyAttempts),
		errors.Is(err, common.ErrEventNotFound),
		errors.Is(err, common.ErrInvalidEventWindow),
		errors.Is(err, common.ErrInvalidBonus),
		errors.Is(err, common.ErrInsufficientBalance),
		errors.Is(err, common.ErrInvalidAmount):
		h.sendMessage(ctx, chatID, "❌ "+err.Error())
	default:
		log.WithError(err).Error("Ошибка админ-команды")
		h.sendMessage(ctx, chatID, "❌ Внутренняя ошибка")
	}
}

func (h *Handler) sendMessage(ctx context.Context, chatID int64, text string) {
	if err := h.sender.Send(ctx, chatID, text); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
