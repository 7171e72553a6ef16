package events

import (
	"sort"
	"sync"
	"time"
)

// Resolver вычисляет активные события на момент now.
// Ничего не кэширует: каждый вызов считает заново.
// Особые события хранятся в памяти, сохранением занимается Service.
type Resolver struct {
	mu       sync.RWMutex
	specials []GameEvent
	weekends bool
	holidays bool
}

// NewResolver создаёт резолвер со встроенными выходными и праздниками.
func NewResolver() *Resolver {
	return &Resolver{weekends: true, holidays: true}
}

// SetSpecials заменяет список особых событий.
func (r *Resolver) SetSpecials(list []GameEvent) {
	cp := make([]GameEvent, len(list))
	copy(cp, list)

	r.mu.Lock()
	r.specials = cp
	r.mu.Unlock()
}

// AddSpecial добавляет особое событие.
func (r *Resolver) AddSpecial(ev GameEvent) {
	r.mu.Lock()
	r.specials = append(r.specials, ev)
	r.mu.Unlock()
}

// RemoveSpecial удаляет особое событие по ID.
func (r *Resolver) RemoveSpecial(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, ev := range r.specials {
		if ev.ID == id {
			r.specials = append(r.specials[:i:i], r.specials[i+1:]...)
			return true
		}
	}
	return false
}

// Specials возвращает копию списка особых событий.
func (r *Resolver) Specials() []GameEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]GameEvent, len(r.specials))
	copy(out, r.specials)
	return out
}

// ActiveEvents возвращает события, активные в момент now, отсортированные по началу.
func (r *Resolver) ActiveEvents(now time.Time) []GameEvent {
	var active []GameEvent

	if r.weekends {
		if ev := weekendEvent(now); ev.ActiveAt(now) {
			active = append(active, ev)
		}
	}
	if r.holidays {
		for _, ev := range HolidayWindows(now.Year(), now.Location()) {
			if ev.ActiveAt(now) {
				active = append(active, ev)
			}
		}
	}

	r.mu.RLock()
	for _, ev := range r.specials {
		if ev.ActiveAt(now) {
			active = append(active, ev)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Start.Before(active[j].Start)
	})
	return active
}

// HasActiveEvent — есть хотя бы одно активное событие.
func (r *Resolver) HasActiveEvent(now time.Time) bool {
	return len(r.ActiveEvents(now)) > 0
}

// AggregateBonus складывает бонусы событий.
// Множители перемножаются начиная с 1, прибавка монет суммируется начиная с 0.
// Значения сортируются перед сверткой, чтобы порядок событий не менял
// результат даже в последнем бите.
func AggregateBonus(events []GameEvent, field BonusField) float64 {
	values := make([]float64, 0, len(events))
	for _, ev := range events {
		if v := ev.Bonuses.value(field); v != nil {
			values = append(values, *v)
		}
	}
	sort.Float64s(values)

	if field.Multiplicative() {
		result := 1.0
		for _, v := range values {
			result *= v
		}
		return result
	}

	result := 0.0
	for _, v := range values {
		result += v
	}
	return result
}

func (r *Resolver) CurrentProductionMultiplier(now time.Time) float64 {
	return AggregateBonus(r.ActiveEvents(now), FieldProduction)
}

func (r *Resolver) CurrentDailyRewardMultiplier(now time.Time) float64 {
	return AggregateBonus(r.ActiveEvents(now), FieldDailyReward)
}

func (r *Resolver) CurrentLabBonusMultiplier(now time.Time) float64 {
	return AggregateBonus(r.ActiveEvents(now), FieldLabBonus)
}

// CurrentCoinBonus — прибавка монет от событий. Показывается игроку,
// но в ежедневную награду не входит.
func (r *Resolver) CurrentCoinBonus(now time.Time) float64 {
	return AggregateBonus(r.ActiveEvents(now), FieldCoinBonus)
}
