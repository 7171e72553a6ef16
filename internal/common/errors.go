// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Обработчики различают их через errors.Is и отвечают игроку понятным текстом.
package common

import "errors"

// Ошибки экономики (монеты, списания)
var (
	// ErrInsufficientBalance — недостаточно монет на счёте
	ErrInsufficientBalance = errors.New("недостаточно монет на счёте")
	// ErrInvalidAmount — некорректная сумма (ноль или отрицательная)
	ErrInvalidAmount = errors.New("сумма должна быть положительной")
)

// Ошибки стриков
var (
	// ErrAlreadyClaimed — награда за сегодня уже получена.
	// Не сбой: монеты повторно не начисляются, состояние не меняется.
	ErrAlreadyClaimed = errors.New("награда за сегодня уже получена")
	// ErrProtectionUsed — защита стрика на этой неделе уже израсходована
	ErrProtectionUsed = errors.New("защита стрика на этой неделе уже использована")
	// ErrClaimInProgress — параллельный запрос того же игрока ещё обрабатывается
	ErrClaimInProgress = errors.New("запрос уже обрабатывается, попробуйте через пару секунд")
)

// Ошибки событий
var (
	// ErrEventNotFound — событие с таким ID не найдено
	ErrEventNotFound = errors.New("событие не найдено")
	// ErrInvalidEventWindow — конец события не позже начала
	ErrInvalidEventWindow = errors.New("конец события должен быть позже начала")
	// ErrInvalidBonus — некорректный бонус события
	ErrInvalidBonus = errors.New("некорректный бонус события")
)

// Ошибки админки
var (
	// ErrNotAdmin — пользователь не является администратором
	ErrNotAdmin = errors.New("у вас нет прав администратора")
	// ErrWrongPassword — неверный пароль
	ErrWrongPassword = errors.New("неверный пароль")
	// ErrTooManyAttempts — слишком много неудачных попыток входа
	ErrTooManyAttempts = errors.New("слишком много попыток, подождите 1 час")
	// ErrSessionExpired — сессия истекла
	ErrSessionExpired = errors.New("сессия истекла, авторизуйтесь заново")
)
