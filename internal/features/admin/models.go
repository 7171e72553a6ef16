// Package admin реализует админ-команды с парольной аутентификацией.
// models.go описывает структуры сессий и попыток входа.
package admin

import "time"

// AdminSession — активная сессия администратора.
type AdminSession struct {
	UserID          int64
	SessionToken    string
	AuthenticatedAt time.Time
	ExpiresAt       time.Time
	LastActivity    time.Time
}

// LoginAttempt — попытка входа (для защиты от brute-force).
type LoginAttempt struct {
	UserID      int64
	AttemptTime time.Time
	Success     bool
}

// AdminState — состояние диалога с админом.
type AdminState struct {
	State     string
	ExpiresAt time.Time // Когда состояние истекает (5 минут)
}

// Возможные состояния админ-диалога
const (
	StateNone             = ""
	StateAwaitingPassword = "awaiting_password" // Ждём пароль следующим сообщением
)

// Ограничения входа
const (
	SessionTTL       = 24 * time.Hour
	StateTTL         = 5 * time.Minute
	MaxLoginAttempts = 3
	AttemptsWindow   = 1 * time.Hour
)
