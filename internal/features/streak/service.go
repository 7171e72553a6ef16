// Package streak — service.go содержит бизнес-логику ежедневной награды:
// получение с учётом событий, защита стрика, ночной сброс и напоминания.
package streak

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reward-bot/internal/calendar"
	"serotonyl.ru/reward-bot/internal/common"
	"serotonyl.ru/reward-bot/internal/config"
	"serotonyl.ru/reward-bot/internal/features/analytics"
	"serotonyl.ru/reward-bot/internal/features/economy"
	"serotonyl.ru/reward-bot/internal/features/rewards"
	"serotonyl.ru/reward-bot/internal/lock"
)

// DailyMultiplier — источник множителя ежедневной награды от событий.
type DailyMultiplier interface {
	CurrentDailyRewardMultiplier(now time.Time) float64
}

// Service управляет стриками.
type Service struct {
	repo     Repository
	events   DailyMultiplier // nil — события выключены
	locker   lock.Locker
	recorder analytics.Recorder
	clock    calendar.Clock
	cfg      *config.Config
}

// NewService создаёт новый сервис стриков.
func NewService(
	repo Repository,
	events DailyMultiplier,
	locker lock.Locker,
	recorder analytics.Recorder,
	clock calendar.Clock,
	cfg *config.Config,
) *Service {
	if recorder == nil {
		recorder = analytics.Nop{}
	}
	return &Service{
		repo:     repo,
		events:   events,
		locker:   locker,
		recorder: recorder,
		clock:    clock,
		cfg:      cfg,
	}
}

func (s *Service) eventMultiplier(now time.Time) float64 {
	if s.events == nil {
		return 1
	}
	return s.events.CurrentDailyRewardMultiplier(now)
}

// withUserLock выполняет fn под блокировкой игрока.
func (s *Service) withUserLock(ctx context.Context, userID int64, fn func() error) error {
	release, ok, err := s.locker.TryLock(ctx, fmt.Sprintf("streak:%d", userID))
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrClaimInProgress
	}
	defer release()
	return fn()
}

// Claim выдаёт ежедневную награду.
//
// Алгоритм:
//  1. Берём блокировку игрока
//  2. В одной транзакции: сжигаем просроченный стрик, выполняем переход,
//     домножаем на события, начисляем монеты и сохраняем состояние
//  3. После коммита пишем событие в аналитику
//
// Повторный вызов в тот же день — common.ErrAlreadyClaimed, монеты не начисляются.
func (s *Service) Claim(ctx context.Context, userID int64) (*ClaimOutcome, error) {
	var outcome *ClaimOutcome

	err := s.withUserLock(ctx, userID, func() error {
		now := s.clock.Now()
		today := calendar.TodayKey(now)

		return s.repo.Mutate(ctx, userID, func(st *State) (*Mutation, error) {
			ExpireIfStale(st, today)

			res, ok := Claim(st, today)
			if !ok {
				return nil, common.ErrAlreadyClaimed
			}

			eventMult := s.eventMultiplier(now)
			outcome = &ClaimOutcome{
				ClaimResult:     res,
				EventMultiplier: eventMult,
				FinalCoins:      rewards.ComposeDailyReward(res, eventMult),
			}
			if outcome.FinalCoins <= 0 {
				return nil, nil
			}
			return &Mutation{Credit: &economy.Entry{
				Amount:      outcome.FinalCoins,
				TxType:      economy.TxTypeDailyReward,
				Description: FormatRewardDescription(res.NewStreak),
			}}, nil
		})
	})
	if err != nil {
		return nil, err
	}

	if err := s.recorder.Record(ctx, analytics.EventDailyRewardClaimed, map[string]any{
		"streakCount": outcome.NewStreak,
		"coinsEarned": outcome.FinalCoins,
	}); err != nil {
		log.WithError(err).Warn("Не удалось записать событие аналитики")
	}

	log.WithFields(log.Fields{
		"user_id":    userID,
		"streak":     outcome.NewStreak,
		"coins":      outcome.FinalCoins,
		"event_mult": outcome.EventMultiplier,
		"protected":  outcome.ProtectionConsumed,
	}).Info("Ежедневная награда получена")

	return outcome, nil
}

// Status возвращает состояние стрика и награду дня.
// Просроченный стрик сжигается и сохраняется.
func (s *Service) Status(ctx context.Context, userID int64) (*Status, error) {
	now := s.clock.Now()
	today := calendar.TodayKey(now)

	st, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	expired := false
	if probe := st.Clone(); ExpireIfStale(probe, today) {
		err := s.repo.Mutate(ctx, userID, func(cur *State) (*Mutation, error) {
			expired = ExpireIfStale(cur, today)
			st = cur.Clone()
			return nil, nil
		})
		if err != nil {
			return nil, err
		}
	}

	return &Status{
		State:               st,
		Preview:             PreviewTodayReward(st, today),
		Expired:             expired,
		ProtectionAvailable: ProtectionAvailable(st, today),
		NextMultiplier:      StreakMultiplier(st.CurrentStreak),
		EventMultiplier:     s.eventMultiplier(now),
	}, nil
}

// UseProtection тратит недельную защиту стрика.
// Если задана цена, монеты списываются в той же транзакции.
func (s *Service) UseProtection(ctx context.Context, userID int64) (*State, error) {
	var result *State

	err := s.withUserLock(ctx, userID, func() error {
		today := calendar.TodayKey(s.clock.Now())

		return s.repo.Mutate(ctx, userID, func(st *State) (*Mutation, error) {
			ExpireIfStale(st, today)
			if !UseStreakProtection(st, today) {
				return nil, common.ErrProtectionUsed
			}
			result = st.Clone()

			if s.cfg.StreakProtectionPrice <= 0 {
				return nil, nil
			}
			return &Mutation{Debit: &economy.Entry{
				Amount:      s.cfg.StreakProtectionPrice,
				TxType:      economy.TxTypeStreakProtection,
				Description: "Защита стрика",
			}}, nil
		})
	})
	if err != nil {
		return nil, err
	}

	if err := s.recorder.Record(ctx, analytics.EventStreakProtected, map[string]any{
		"streakCount": result.CurrentStreak,
		"price":       s.cfg.StreakProtectionPrice,
	}); err != nil {
		log.WithError(err).Warn("Не удалось записать событие аналитики")
	}

	return result, nil
}

// ExpireAll сжигает все просроченные стрики. Запускается кроном ночью.
func (s *Service) ExpireAll(ctx context.Context) (int, error) {
	today := calendar.TodayKey(s.clock.Now())

	records, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка получения стриков: %w", err)
	}

	expired := 0
	for _, rec := range records {
		if !ExpireIfStale(rec.State.Clone(), today) {
			continue
		}
		changed := false
		err := s.repo.Mutate(ctx, rec.UserID, func(st *State) (*Mutation, error) {
			changed = ExpireIfStale(st, today)
			return nil, nil
		})
		if err != nil {
			log.WithError(err).WithField("user_id", rec.UserID).Error("Ошибка сброса стрика")
			continue
		}
		if changed {
			expired++
		}
	}

	log.WithFields(log.Fields{
		"total":   len(records),
		"expired": expired,
	}).Info("Ночной сброс стриков завершён")
	return expired, nil
}

// SendReminders напоминает игрокам с длинным стриком, что сегодня награда
// ещё не получена. Каждому не чаще раза в день.
func (s *Service) SendReminders(ctx context.Context, sender common.Sender) (int, error) {
	now := s.clock.Now()
	if now.Hour() < s.cfg.StreakReminderHour {
		return 0, nil
	}
	today := calendar.TodayKey(now)
	yesterday, err := calendar.AddDays(today, -1)
	if err != nil {
		return 0, err
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка получения стриков: %w", err)
	}

	sent := 0
	for _, rec := range records {
		if !NeedsReminder(rec, yesterday, today, s.cfg.StreakReminderThreshold) {
			continue
		}

		text := ReminderText(rec.State)
		if err := sender.Send(ctx, rec.UserID, text); err != nil {
			log.WithError(err).WithField("user_id", rec.UserID).Warn("Не удалось отправить напоминание")
			continue
		}
		if err := s.repo.MarkReminded(ctx, rec.UserID, today); err != nil {
			return sent, err
		}
		sent++
	}

	if sent > 0 {
		log.WithField("sent", sent).Info("Напоминания о стрике отправлены")
	}
	return sent, nil
}

// NeedsReminder — стрик не короче threshold, последнее получение вчера,
// сегодня ещё не напоминали.
func NeedsReminder(rec Record, yesterday, today string, threshold int) bool {
	st := rec.State
	if st == nil || st.LastClaimDate == nil {
		return false
	}
	return st.CurrentStreak >= threshold &&
		*st.LastClaimDate == yesterday &&
		rec.RemindedOn != today
}

// ReminderText — текст напоминания.
func ReminderText(st *State) string {
	next := ScheduleEntry(st.CurrentStreak)
	return fmt.Sprintf(
		"🔥 Твой огонёк горит уже %d %s!\nЗабери сегодняшнюю награду (%s), иначе стрик прервётся.\nКоманда: !награда",
		st.CurrentStreak, common.PluralizeDays(st.CurrentStreak), common.FormatBalance(next.BaseCoins),
	)
}

// IsUserError — ошибка, о которой нужно просто сообщить игроку.
func IsUserError(err error) bool {
	return errors.Is(err, common.ErrAlreadyClaimed) ||
		errors.Is(err, common.ErrProtectionUsed) ||
		errors.Is(err, common.ErrClaimInProgress) ||
		errors.Is(err, common.ErrInsufficientBalance)
}
