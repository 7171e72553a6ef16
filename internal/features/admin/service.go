// Package admin — service.go содержит логику аутентификации и управления сессиями.
package admin

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"serotonyl.ru/reward-bot/internal/calendar"
	"serotonyl.ru/reward-bot/internal/common"
	"serotonyl.ru/reward-bot/internal/config"
)

// Service управляет доступом к админ-командам.
type Service struct {
	repo     Repository
	cfg      *config.Config
	clock    calendar.Clock
	states   map[int64]*AdminState // Состояния диалогов (in-memory)
	statesMu sync.RWMutex
}

// NewService создаёт сервис админки.
func NewService(repo Repository, cfg *config.Config, clock calendar.Clock) *Service {
	return &Service{
		repo:   repo,
		cfg:    cfg,
		clock:  clock,
		states: make(map[int64]*AdminState),
	}
}

// IsAdmin — пользователь указан в ADMIN_IDS.
func (s *Service) IsAdmin(userID int64) bool {
	return s.cfg.IsAdmin(userID)
}

// VerifyPassword проверяет пароль администратора с использованием Argon2id.
// Защита от brute-force: 3 неудачные попытки за час = блокировка.
func (s *Service) VerifyPassword(ctx context.Context, userID int64, password string) error {
	if !s.IsAdmin(userID) {
		return common.ErrNotAdmin
	}
	now := s.clock.Now()

	failures, err := s.repo.GetRecentFailures(ctx, userID, now.Add(-AttemptsWindow))
	if err != nil {
		return err
	}
	if failures >= MaxLoginAttempts {
		return common.ErrTooManyAttempts
	}

	match := VerifyArgon2id(password, s.cfg.AdminPasswordHash)
	if err := s.repo.LogAttempt(ctx, LoginAttempt{UserID: userID, AttemptTime: now, Success: match}); err != nil {
		log.WithError(err).Warn("Не удалось записать попытку входа")
	}
	if !match {
		log.WithField("user_id", userID).Warn("Неверный пароль админа")
		return common.ErrWrongPassword
	}

	session := &AdminSession{
		UserID:          userID,
		SessionToken:    generateSecureToken(),
		AuthenticatedAt: now,
		ExpiresAt:       now.Add(SessionTTL),
		LastActivity:    now,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return fmt.Errorf("ошибка создания сессии: %w", err)
	}

	log.WithField("user_id", userID).Info("Админ вошёл")
	return nil
}

// RequireSession проверяет права и активную сессию, продлевая активность.
func (s *Service) RequireSession(ctx context.Context, userID int64) error {
	if !s.IsAdmin(userID) {
		return common.ErrNotAdmin
	}
	now := s.clock.Now()
	session, err := s.repo.GetActiveSession(ctx, userID, now)
	if err != nil {
		return err
	}
	if session == nil {
		return common.ErrSessionExpired
	}
	return s.repo.UpdateActivity(ctx, userID, now)
}

// Logout закрывает сессию.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.repo.DeactivateSession(ctx, userID)
}

// GetState возвращает текущее состояние диалога.
func (s *Service) GetState(userID int64) *AdminState {
	s.statesMu.RLock()
	defer s.statesMu.RUnlock()

	state, ok := s.states[userID]
	if !ok || s.clock.Now().After(state.ExpiresAt) {
		return nil
	}
	return state
}

// SetState устанавливает состояние диалога с 5-минутным таймаутом.
func (s *Service) SetState(userID int64, stateName string) {
	s.statesMu.Lock()
	defer s.statesMu.Unlock()

	s.states[userID] = &AdminState{
		State:     stateName,
		ExpiresAt: s.clock.Now().Add(StateTTL),
	}
}

// ClearState сбрасывает состояние диалога.
func (s *Service) ClearState(userID int64) {
	s.statesMu.Lock()
	defer s.statesMu.Unlock()
	delete(s.states, userID)
}

// --- Криптографические утилиты ---

// Параметры Argon2id для новых хешей
const (
	argonMemory      uint32 = 64 * 1024
	argonIterations  uint32 = 3
	argonParallelism uint8  = 2
	argonKeyLength   uint32 = 32
	argonSaltLength         = 16
)

// HashPassword возвращает хеш в формате
// $argon2id$v=19$m=65536,t=3,p=2$<salt_base64>$<hash_base64>
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("ошибка генерации соли: %w", err)
	}
	hash := argon2.IDKey([]byte(password), salt, argonIterations, argonMemory, argonParallelism, argonKeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonIterations, argonParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyArgon2id проверяет пароль по хешу Argon2id.
func VerifyArgon2id(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		log.Error("Некорректный формат хеша Argon2id")
		return false
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		log.WithError(err).Error("Ошибка парсинга параметров Argon2id")
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования соли")
		return false
	}
	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования хеша")
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expectedHash)))

	// Сравнение в постоянном времени
	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1
}

// generateSecureToken генерирует случайный токен сессии.
func generateSecureToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return base64.URLEncoding.EncodeToString(b)
}
