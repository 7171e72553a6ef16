// Package events вычисляет активные игровые события (выходные, праздники,
// особые события от админов) и их суммарные бонусы.
package events

import "time"

// EventType — вид события.
type EventType string

const (
	TypeWeekendBoost EventType = "weekend_boost"
	TypeHoliday      EventType = "holiday"
	TypeSpecial      EventType = "special"
	TypeAnniversary  EventType = "anniversary"
	TypeNewYear      EventType = "new_year"
	TypeHalloween    EventType = "halloween"
	TypeSummer       EventType = "summer"
)

// Bonuses — бонусы события. nil — событие этот бонус не даёт.
type Bonuses struct {
	ProductionMultiplier  *float64 `json:"productionMultiplier,omitempty"`
	CoinBonus             *float64 `json:"coinBonus,omitempty"`
	DailyRewardMultiplier *float64 `json:"dailyRewardMultiplier,omitempty"`
	LabBonusMultiplier    *float64 `json:"labBonusMultiplier,omitempty"`
}

// GameEvent — событие с окном действия [Start, End).
type GameEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Bonuses     Bonuses   `json:"bonuses"`
}

// ActiveAt — now попадает в полуинтервал [Start, End).
func (e GameEvent) ActiveAt(now time.Time) bool {
	return !now.Before(e.Start) && now.Before(e.End)
}

// BonusField — вид бонуса для агрегации.
type BonusField int

const (
	FieldProduction BonusField = iota
	FieldCoinBonus
	FieldDailyReward
	FieldLabBonus
)

// Multiplicative — множитель (а не прибавка).
func (f BonusField) Multiplicative() bool {
	return f != FieldCoinBonus
}

func (f BonusField) String() string {
	switch f {
	case FieldProduction:
		return "production"
	case FieldCoinBonus:
		return "coins"
	case FieldDailyReward:
		return "daily"
	case FieldLabBonus:
		return "lab"
	default:
		return "unknown"
	}
}

func (b Bonuses) value(f BonusField) *float64 {
	switch f {
	case FieldProduction:
		return b.ProductionMultiplier
	case FieldCoinBonus:
		return b.CoinBonus
	case FieldDailyReward:
		return b.DailyRewardMultiplier
	case FieldLabBonus:
		return b.LabBonusMultiplier
	default:
		return nil
	}
}

// Set задаёт значение бонуса.
func (b *Bonuses) Set(f BonusField, v float64) {
	switch f {
	case FieldProduction:
		b.ProductionMultiplier = &v
	case FieldCoinBonus:
		b.CoinBonus = &v
	case FieldDailyReward:
		b.DailyRewardMultiplier = &v
	case FieldLabBonus:
		b.LabBonusMultiplier = &v
	}
}

// Empty — ни одного бонуса.
func (b Bonuses) Empty() bool {
	return b.ProductionMultiplier == nil && b.CoinBonus == nil &&
		b.DailyRewardMultiplier == nil && b.LabBonusMultiplier == nil
}

func f64(v float64) *float64 { return &v }
