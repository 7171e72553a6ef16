package common

import "context"

// Sender отправляет текстовое сообщение в чат.
// Реализуется Telegram-клиентом; в тестах подменяется записывающей заглушкой.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}
