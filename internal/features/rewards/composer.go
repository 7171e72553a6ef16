// Package rewards собирает итоговую выплату из базовой награды,
// множителя стрика и множителя событий.
package rewards

import "math"

// epsilon гасит ошибку двоичного представления: 50*1.2 = 59.999...
const epsilon = 1e-9

// StreakReward — результат получения награды, который можно домножить на события.
type StreakReward interface {
	RewardBase() int64
	RewardMultiplier() float64
}

// Compose = floor(base * streakMultiplier * eventMultiplier).
// Округление вниз один раз, после всех множителей.
func Compose(baseCoins int64, streakMultiplier, eventMultiplier float64) int64 {
	if baseCoins <= 0 {
		return 0
	}
	v := float64(baseCoins) * streakMultiplier * eventMultiplier
	if v <= 0 {
		return 0
	}
	return int64(math.Floor(v + epsilon))
}

// ComposeDailyReward применяет множитель ежедневной награды от событий
// поверх награды со стриком.
func ComposeDailyReward(r StreakReward, eventDailyRewardMultiplier float64) int64 {
	return Compose(r.RewardBase(), r.RewardMultiplier(), eventDailyRewardMultiplier)
}
