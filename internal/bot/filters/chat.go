// Package filters решает, в каких чатах бот отвечает.
package filters

import (
	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"
)

// ChatFilter пропускает личку всегда, а группы — только из белого списка.
// Пустой список означает «любая группа».
type ChatFilter struct {
	allowed map[int64]struct{}
}

func NewChatFilter(allowedChatIDs []int64) *ChatFilter {
	allowed := make(map[int64]struct{}, len(allowedChatIDs))
	for _, id := range allowedChatIDs {
		allowed[id] = struct{}{}
	}
	return &ChatFilter{allowed: allowed}
}

func (f *ChatFilter) CheckAccess(message *telego.Message) bool {
	if message == nil {
		log.WithField("component", "ChatFilter").Warn("nil message")
		return false
	}
	if message.From == nil {
		log.WithFields(log.Fields{
			"component": "ChatFilter",
			"chat_id":   message.Chat.ID,
			"chat_type": message.Chat.Type,
		}).Warn("nil message.From (service/channel message?)")
		return false
	}
	if message.From.IsBot {
		return false
	}

	logger := log.WithFields(log.Fields{
		"component": "ChatFilter",
		"chat_id":   message.Chat.ID,
		"chat_type": message.Chat.Type,
		"user_id":   message.From.ID,
	})

	switch message.Chat.Type {
	case telego.ChatTypePrivate:
		logger.Debug("allow: private")
		return true

	case telego.ChatTypeGroup, telego.ChatTypeSupergroup:
		if len(f.allowed) == 0 {
			logger.Debug("allow: group (no whitelist)")
			return true
		}
		if _, ok := f.allowed[message.Chat.ID]; ok {
			logger.Debug("allow: whitelisted group")
			return true
		}
		logger.Info("deny: group not in ALLOWED_CHAT_IDS")
		return false
	}

	// Каналы и прочее игнорируем
	logger.Debug("deny: unsupported chat type")
	return false
}
