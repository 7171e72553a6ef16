package events

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reward-bot/internal/calendar"
	"serotonyl.ru/reward-bot/internal/common"
)

// Service управляет особыми событиями: сохраняет их в репозитории
// и держит резолвер в синхроне с хранилищем.
type Service struct {
	repo     Repository
	resolver *Resolver
	clock    calendar.Clock
}

// NewService создаёт сервис событий.
func NewService(repo Repository, resolver *Resolver, clock calendar.Clock) *Service {
	return &Service{repo: repo, resolver: resolver, clock: clock}
}

// Load загружает особые события из хранилища в резолвер.
func (s *Service) Load(ctx context.Context) error {
	list, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	s.resolver.SetSpecials(list)
	log.WithField("count", len(list)).Info("Особые события загружены")
	return nil
}

// SpecialInput — параметры нового особого события.
type SpecialInput struct {
	Name        string
	Description string
	Icon        string
	Start       time.Time
	End         time.Time
	Bonuses     Bonuses
}

// Validate проверяет окно и бонусы.
func (in SpecialInput) Validate() error {
	if !in.End.After(in.Start) {
		return common.ErrInvalidEventWindow
	}
	if in.Bonuses.Empty() {
		return fmt.Errorf("%w: не задан ни один бонус", common.ErrInvalidBonus)
	}
	for _, f := range []BonusField{FieldProduction, FieldDailyReward, FieldLabBonus} {
		if v := in.Bonuses.value(f); v != nil && *v <= 0 {
			return fmt.Errorf("%w: множитель %s должен быть > 0", common.ErrInvalidBonus, f)
		}
	}
	if v := in.Bonuses.CoinBonus; v != nil && *v < 0 {
		return fmt.Errorf("%w: прибавка монет не может быть отрицательной", common.ErrInvalidBonus)
	}
	return nil
}

// AddSpecial сохраняет особое событие и сразу делает его видимым резолверу.
func (s *Service) AddSpecial(ctx context.Context, in SpecialInput) (*GameEvent, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = "Особое событие"
	}
	icon := in.Icon
	if icon == "" {
		icon = "⭐"
	}

	ev := GameEvent{
		ID:          uuid.NewString(),
		Type:        TypeSpecial,
		Name:        name,
		Description: in.Description,
		Icon:        icon,
		Start:       in.Start,
		End:         in.End,
		Bonuses:     in.Bonuses,
	}
	if err := s.repo.Add(ctx, ev); err != nil {
		return nil, err
	}
	s.resolver.AddSpecial(ev)

	log.WithFields(log.Fields{
		"id":    ev.ID,
		"name":  ev.Name,
		"start": ev.Start,
		"end":   ev.End,
	}).Info("Особое событие добавлено")
	return &ev, nil
}

// RemoveSpecial удаляет особое событие.
func (s *Service) RemoveSpecial(ctx context.Context, id string) error {
	removed, err := s.repo.Remove(ctx, id)
	if err != nil {
		return err
	}
	s.resolver.RemoveSpecial(id)
	if !removed {
		return common.ErrEventNotFound
	}
	log.WithField("id", id).Info("Особое событие удалено")
	return nil
}

// ListSpecial возвращает все особые события.
func (s *Service) ListSpecial() []GameEvent {
	return s.resolver.Specials()
}

// Summary — активные события и суммарные бонусы на момент Now.
type Summary struct {
	Now                   time.Time
	Events                []GameEvent
	ProductionMultiplier  float64
	DailyRewardMultiplier float64
	LabBonusMultiplier    float64
	CoinBonus             float64
}

// Current возвращает сводку по активным событиям.
func (s *Service) Current() Summary {
	now := s.clock.Now()
	active := s.resolver.ActiveEvents(now)
	return Summary{
		Now:                   now,
		Events:                active,
		ProductionMultiplier:  AggregateBonus(active, FieldProduction),
		DailyRewardMultiplier: AggregateBonus(active, FieldDailyReward),
		LabBonusMultiplier:    AggregateBonus(active, FieldLabBonus),
		CoinBonus:             AggregateBonus(active, FieldCoinBonus),
	}
}

// InputTimeLayout — формат времени в админ-командах.
const InputTimeLayout = "2006-01-02T15:04"

// ParseSpecialArgs разбирает аргументы команды добавления события:
//
//	<start> <end> [production=1.5] [daily=2] [lab=1.2] [coins=50] <название...>
//
// Время — местное, формат 2006-01-02T15:04.
func ParseSpecialArgs(args []string, loc *time.Location) (SpecialInput, error) {
	var in SpecialInput
	if len(args) < 3 {
		return in, fmt.Errorf("нужно: начало конец бонус=значение... название")
	}

	start, err := time.ParseInLocation(InputTimeLayout, args[0], loc)
	if err != nil {
		return in, fmt.Errorf("некорректное начало %q: ожидается %s", args[0], InputTimeLayout)
	}
	end, err := time.ParseInLocation(InputTimeLayout, args[1], loc)
	if err != nil {
		return in, fmt.Errorf("некорректный конец %q: ожидается %s", args[1], InputTimeLayout)
	}
	in.Start, in.End = start, end

	var name []string
	for _, arg := range args[2:] {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			name = append(name, arg)
			continue
		}
		field, known := bonusKeys[strings.ToLower(key)]
		if !known {
			return in, fmt.Errorf("%w: неизвестный бонус %q", common.ErrInvalidBonus, key)
		}
		v, err := strconv.ParseFloat(strings.Replace(value, ",", ".", 1), 64)
		if err != nil {
			return in, fmt.Errorf("%w: %s=%q не число", common.ErrInvalidBonus, key, value)
		}
		in.Bonuses.Set(field, v)
	}
	in.Name = strings.Join(name, " ")

	return in, in.Validate()
}

var bonusKeys = map[string]BonusField{
	"production": FieldProduction,
	"daily":      FieldDailyReward,
	"lab":        FieldLabBonus,
	"coins":      FieldCoinBonus,
}
