// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ночной сброс погасших стриков
// и ежечасные напоминания о награде.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reward-bot/internal/common"
	"serotonyl.ru/reward-bot/internal/features/streak"
)

// Расписания задач (в часовом поясе игроков)
const (
	ExpireSpec   = "5 0 * * *"
	ReminderSpec = "0 * * * *"
)

// StreakJobs — то, что планировщик дёргает у сервиса стриков.
type StreakJobs interface {
	ExpireAll(ctx context.Context) (int, error)
	SendReminders(ctx context.Context, sender common.Sender) (int, error)
}

var _ StreakJobs = (*streak.Service)(nil)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron      *cron.Cron
	streaks   StreakJobs
	sender    common.Sender
	loc       *time.Location
	reminders bool
}

// NewScheduler создаёт планировщик в часовом поясе игроков.
// reminders=false отключает ежечасные напоминания.
func NewScheduler(streaks StreakJobs, sender common.Sender, loc *time.Location, reminders bool) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		streaks:   streaks,
		sender:    sender,
		loc:       loc,
		reminders: reminders,
	}
}

// Start регистрирует задачи и запускает cron.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(ExpireSpec, func() { s.runExpire(ctx) }); err != nil {
		return err
	}

	if s.reminders {
		if _, err := s.cron.AddFunc(ReminderSpec, func() { s.runReminders(ctx) }); err != nil {
			return err
		}
	}

	s.cron.Start()
	log.WithFields(log.Fields{
		"timezone":  s.loc.String(),
		"reminders": s.reminders,
	}).Info("Планировщик задач запущен")
	return nil
}

func (s *Scheduler) runExpire(ctx context.Context) {
	log.Info("[CRON] Сброс погасших стриков")
	n, err := s.streaks.ExpireAll(ctx)
	if err != nil {
		log.WithError(err).Error("[CRON] Ошибка сброса")
		return
	}
	log.WithField("expired", n).Info("[CRON] Сброс завершён")
}

func (s *Scheduler) runReminders(ctx context.Context) {
	log.Debug("[CRON] Проверка напоминаний")
	n, err := s.streaks.SendReminders(ctx, s.sender)
	if err != nil {
		log.WithError(err).Error("[CRON] Ошибка напоминаний")
		return
	}
	if n > 0 {
		log.WithField("sent", n).Info("[CRON] Напоминания отправлены")
	}
}

// Entries — зарегистрированные задачи (для логов и тестов).
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// Stop останавливает планировщик и ждёт текущие задачи.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
