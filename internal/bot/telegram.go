package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"
)

// Client — тонкая обёртка над Telegram Bot API.
// Реализует common.Sender, через неё ходят все обработчики и планировщик.
type Client struct {
	api *telego.Bot
}

// NewClient создаёт клиента и проверяет токен запросом getMe.
func NewClient(ctx context.Context, token string, debug bool) (*Client, error) {
	var opts []telego.BotOption
	if debug {
		opts = append(opts, telego.WithDefaultDebugLogger())
	}

	api, err := telego.NewBot(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("telego.NewBot: %w", err)
	}

	me, err := api.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("getMe: %w", err)
	}
	log.Infof("Авторизован как @%s", me.Username)

	return &Client{api: api}, nil
}

// Send отправляет текстовое сообщение в чат.
func (c *Client) Send(ctx context.Context, chatID int64, text string) error {
	if _, err := c.api.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		return fmt.Errorf("sendMessage chat=%d: %w", chatID, err)
	}
	return nil
}

// Updates запускает long polling. Канал закрывается после отмены ctx.
func (c *Client) Updates(ctx context.Context, timeoutSec int) (<-chan telego.Update, error) {
	return c.api.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{Timeout: timeoutSec})
}
