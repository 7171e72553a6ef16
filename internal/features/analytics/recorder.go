// Package analytics отправляет продуктовые события (например, получение
// ежедневной награды) во внешнюю аналитику.
package analytics

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Имена событий
const (
	EventDailyRewardClaimed = "daily_reward_claimed"
	EventStreakProtected    = "streak_protection_used"
)

// Recorder записывает событие с параметрами.
type Recorder interface {
	Record(ctx context.Context, name string, params map[string]any) error
}

// LogRecorder пишет события в лог. Используется, если брокер не настроен.
type LogRecorder struct {
	logger *log.Logger
}

// NewLogRecorder создаёт рекордер поверх logger. nil — стандартный логгер.
func NewLogRecorder(logger *log.Logger) *LogRecorder {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogRecorder{logger: logger}
}

func (r *LogRecorder) Record(_ context.Context, name string, params map[string]any) error {
	r.logger.WithFields(log.Fields(params)).WithField("event", name).Info("analytics")
	return nil
}

// Nop ничего не делает.
type Nop struct{}

func (Nop) Record(context.Context, string, map[string]any) error { return nil }
