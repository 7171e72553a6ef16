// Package economy — handlers.go обрабатывает команды:
// !монеты (баланс), !транзакции (история).
package economy

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reward-bot/internal/common"
)

// Handler обрабатывает команды экономики.
type Handler struct {
	service *Service
	sender  common.Sender
}

// NewHandler создаёт новый обработчик экономических команд.
func NewHandler(service *Service, sender common.Sender) *Handler {
	return &Handler{service: service, sender: sender}
}

// HandleBalance обрабатывает команду !монеты.
//
// Формат ответа:
//
//	💰 Баланс: 150 монет
//	Всего заработано: 300 монет
func (h *Handler) HandleBalance(ctx context.Context, chatID int64, userID int64) {
	stats, err := h.service.GetStats(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения баланса")
		h.sendMessage(ctx, chatID, "❌ Ошибка получения баланса")
		return
	}

	text := fmt.Sprintf("💰 Баланс: %s\nВсего заработано: %s",
		common.FormatBalance(stats.Balance), common.FormatBalance(stats.TotalEarned))
	h.sendMessage(ctx, chatID, text)
}

// HandleTransactions обрабатывает команду !транзакции.
func (h *Handler) HandleTransactions(ctx context.Context, chatID int64, userID int64) {
	history, err := h.service.GetTransactionHistory(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения транзакций")
		h.sendMessage(ctx, chatID, "❌ Ошибка получения истории транзакций")
		return
	}
	h.sendMessage(ctx, chatID, history)
}

func (h *Handler) sendMessage(ctx context.Context, chatID int64, text string) {
	if err := h.sender.Send(ctx, chatID, text); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
