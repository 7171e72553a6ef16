// Package admin — repository.go хранит сессии и попытки входа.
package admin

import (
	"context"
	"sync"
	"time"
)

// Repository хранит сессии админов и журнал попыток входа.
type Repository interface {
	CreateSession(ctx context.Context, session *AdminSession) error
	GetActiveSession(ctx context.Context, userID int64, now time.Time) (*AdminSession, error)
	DeactivateSession(ctx context.Context, userID int64) error
	UpdateActivity(ctx context.Context, userID int64, now time.Time) error
	LogAttempt(ctx context.Context, attempt LoginAttempt) error
	GetRecentFailures(ctx context.Context, userID int64, since time.Time) (int, error)
}

// MemoryRepository хранит всё в памяти процесса: после рестарта
// админам нужно войти заново.
type MemoryRepository struct {
	mu       sync.Mutex
	sessions map[int64]*AdminSession
	attempts map[int64][]LoginAttempt
}

// NewMemoryRepository создаёт пустое хранилище.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[int64]*AdminSession),
		attempts: make(map[int64][]LoginAttempt),
	}
}

func (r *MemoryRepository) CreateSession(_ context.Context, session *AdminSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *session
	r.sessions[session.UserID] = &cp
	return nil
}

// GetActiveSession возвращает сессию или nil, если её нет или она истекла.
func (r *MemoryRepository) GetActiveSession(_ context.Context, userID int64, now time.Time) (*AdminSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[userID]
	if !ok {
		return nil, nil
	}
	if !now.Before(s.ExpiresAt) {
		delete(r.sessions, userID)
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *MemoryRepository) DeactivateSession(_ context.Context, userID int64) error {
	r.mu.Lock()
	delete(r.sessions, userID)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) UpdateActivity(_ context.Context, userID int64, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[userID]; ok {
		s.LastActivity = now
	}
	return nil
}

func (r *MemoryRepository) LogAttempt(_ context.Context, attempt LoginAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[attempt.UserID] = append(r.attempts[attempt.UserID], attempt)
	return nil
}

// GetRecentFailures считает неудачные попытки после since.
// Старые записи заодно выбрасываются.
func (r *MemoryRepository) GetRecentFailures(_ context.Context, userID int64, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.attempts[userID][:0]
	failures := 0
	for _, a := range r.attempts[userID] {
		if a.AttemptTime.Before(since) {
			continue
		}
		kept = append(kept, a)
		if !a.Success {
			failures++
		}
	}
	r.attempts[userID] = kept
	return failures, nil
}
