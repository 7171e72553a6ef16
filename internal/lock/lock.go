// Package lock — блокировки по ключу, чтобы один игрок не получил награду
// дважды, отправив две команды подряд.
package lock

import (
	"context"
	"sync"
)

// Locker захватывает блокировку по ключу без ожидания.
// ok=false — ключ уже занят. release снимает именно эту блокировку.
type Locker interface {
	TryLock(ctx context.Context, key string) (release func(), ok bool, err error)
}

// Memory — блокировки внутри одного процесса.
type Memory struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemory создаёт in-memory Locker.
func NewMemory() *Memory {
	return &Memory{held: make(map[string]struct{})}
}

func (m *Memory) TryLock(_ context.Context, key string) (func(), bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, busy := m.held[key]; busy {
		return nil, false, nil
	}
	m.held[key] = struct{}{}

	var once sync.Once
	release := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.held, key)
			m.mu.Unlock()
		})
	}
	return release, true, nil
}
