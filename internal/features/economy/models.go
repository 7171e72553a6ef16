// Package economy реализует монетный счёт игрока.
// models.go описывает структуры для балансов и транзакций.
package economy

import "time"

// Balance представляет баланс пользователя.
// Каждый участник имеет одну запись в таблице balances.
type Balance struct {
	UserID      int64     `db:"user_id"`      // Telegram user ID
	Balance     int64     `db:"balance"`      // Текущий баланс (не опускается ниже 0)
	TotalEarned int64     `db:"total_earned"` // Сколько всего начислено
	TotalSpent  int64     `db:"total_spent"`  // Сколько всего потрачено
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Transaction представляет одну операцию с монетами.
type Transaction struct {
	ID              int64     `db:"id"`
	FromUserID      *int64    `db:"from_user_id"` // nil для начислений
	ToUserID        *int64    `db:"to_user_id"`   // nil для списаний
	Amount          int64     `db:"amount"`       // Всегда положительная
	TransactionType string    `db:"transaction_type"`
	Description     string    `db:"description"`
	CreatedAt       time.Time `db:"created_at"`
}

// Entry — начисление или списание, которое пишется в журнал вместе
// с изменением баланса.
type Entry struct {
	Amount      int64
	TxType      string
	Description string
}

// Типы транзакций
const (
	TxTypeDailyReward      = "daily_reward"      // Ежедневная награда
	TxTypeStreakProtection = "streak_protection" // Покупка защиты стрика
	TxTypeAdminGive        = "admin_give"        // Выдача админом
	TxTypeAdminTake        = "admin_take"        // Списание админом
)

// HistoryLimit — сколько транзакций показывает команда истории.
const HistoryLimit = 10
