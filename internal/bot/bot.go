// Package bot содержит главный модуль бота — приём апдейтов, фильтрацию и маршрутизацию команд.
// bot.go получает апдейты через long polling и раздаёт их обработчикам фич.
package bot

import (
	"context"
	"strings"

	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reward-bot/internal/bot/filters"
	"serotonyl.ru/reward-bot/internal/bot/middleware"
	"serotonyl.ru/reward-bot/internal/common"
	"serotonyl.ru/reward-bot/internal/config"
	"serotonyl.ru/reward-bot/internal/features/admin"
	"serotonyl.ru/reward-bot/internal/features/economy"
	"serotonyl.ru/reward-bot/internal/features/events"
	"serotonyl.ru/reward-bot/internal/features/streak"
)

const helpText = "🎁 Ежедневная награда\n" +
	"!награда — забрать награду за сегодня\n" +
	"!огонек — серия и завтрашняя награда\n" +
	"!защита — недельная защита стрика\n" +
	"!события — активные события и бонусы\n" +
	"!монеты — баланс\n" +
	"!транзакции — последние операции"

// Handlers — обработчики фич, которыми пользуется роутер.
type Handlers struct {
	Streak  *streak.Handler
	Economy *economy.Handler
	Events  *events.Handler
	Admin   *admin.Handler
}

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	client *Client
	sender common.Sender
	cfg    *config.Config

	handlers    Handlers
	chatFilter  *filters.ChatFilter
	rateLimiter *middleware.RateLimiter
	parser      *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
// client нужен только для Start; ответы идут через sender.
func New(client *Client, sender common.Sender, cfg *config.Config, handlers Handlers, chatFilter *filters.ChatFilter) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		client:      client,
		sender:      sender,
		cfg:         cfg,
		handlers:    handlers,
		chatFilter:  chatFilter,
		rateLimiter: middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		parser:      NewCommandParser(),
		inflight:    make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram и блокируется до отмены ctx.
func (b *Bot) Start(ctx context.Context) error {
	defer b.rateLimiter.Close()

	updates, err := b.client.Updates(ctx, b.cfg.BotUpdateTimeoutSeconds)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"max_inflight": cap(b.inflight),
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for update := range updates {
		// лимит параллелизма
		select {
		case b.inflight <- struct{}{}:
		case <-ctx.Done():
			continue
		}
		go func(upd telego.Update) {
			defer func() { <-b.inflight }()
			b.handleUpdate(ctx, upd)
		}(update)
	}

	// дожидаемся обработчиков, которые ещё отвечают
	for i := 0; i < cap(b.inflight); i++ {
		b.inflight <- struct{}{}
	}
	log.Info("Канал updates закрыт, бот остановлен")
	return nil
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update telego.Update) {
	defer middleware.RecoverFromPanic(log.Fields{"update_id": update.UpdateID})

	if update.Message == nil || update.Message.Text == "" {
		return
	}
	b.handleMessage(ctx, update.Message)
}

// handleMessage проверяет доступ и лимиты, затем передаёт текст в админку или роутер.
func (b *Bot) handleMessage(ctx context.Context, message *telego.Message) {
	middleware.LogMessage(message)

	if !b.chatFilter.CheckAccess(message) {
		return
	}

	if !b.rateLimiter.Allow(message.From.ID) {
		log.WithField("user_id", message.From.ID).Debug("rate limited")
		return
	}

	chatID := message.Chat.ID
	userID := message.From.ID

	// В DM сначала админ-панель (в том числе ввод пароля)
	if message.Chat.Type == telego.ChatTypePrivate && b.handlers.Admin != nil {
		if b.handlers.Admin.HandleAdminMessage(ctx, chatID, userID, message.Text) {
			return
		}
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	log.WithFields(log.Fields{
		"isCommand": isCommand,
		"cmd":       cmd,
		"args":      args,
	}).Debug("parsed command")

	if isCommand {
		b.routeCommand(ctx, chatID, userID, cmd)
	}
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, chatID, userID int64, cmd string) {
	switch cmd {
	case "start", "help", "помощь":
		b.sendMessage(ctx, chatID, helpText)

	case "награда", "claim":
		b.handlers.Streak.HandleClaim(ctx, chatID, userID)

	case "огонек", "огонёк", "streak":
		b.handlers.Streak.HandleOgonek(ctx, chatID, userID)

	case "защита", "protect":
		b.handlers.Streak.HandleProtect(ctx, chatID, userID)

	case "события", "events":
		if b.cfg.FeatureEventsEnabled {
			b.handlers.Events.HandleEvents(ctx, chatID)
		} else {
			b.sendMessage(ctx, chatID, "🎪 События временно отключены")
		}

	case "монеты", "balance":
		b.handlers.Economy.HandleBalance(ctx, chatID, userID)

	case "транзакции", "history":
		b.handlers.Economy.HandleTransactions(ctx, chatID, userID)

	default:
		log.WithField("cmd", cmd).Debug("unknown command")
	}
}

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string) {
	if err := b.sender.Send(ctx, chatID, text); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// CommandParser парсит команды с префиксами !, . и /
type CommandParser struct {
	validPrefixes []string
}

// NewCommandParser создаёт парсер команд.
func NewCommandParser() *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"!", ".", "/"},
	}
}

// ParseCommand разбирает текст на команду и аргументы.
// Суффикс @botname у /команд отбрасывается.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}

	if !hasPrefix {
		return "", nil, false
	}

	parts := strings.Fields(text)
	if len(parts) == 0 {
		return "", nil, false
	}

	command := strings.ToLower(parts[0])
	if at := strings.IndexByte(command, '@'); at > 0 {
		command = command[:at]
	}

	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}

	return command, args, true
}
