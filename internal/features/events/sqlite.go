package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reward-bot/internal/db/sqlite"
)

const (
	storeSpecials = "special_events"
	// Список общий для всех игроков
	specialsOwner int64 = 0
)

// SQLiteRepository хранит особые события одной JSON-записью в kv_records.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository создаёт репозиторий поверх открытой базы.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func load(ctx context.Context, q sqlite.Querier) ([]GameEvent, error) {
	payload, found, err := sqlite.GetRecord(ctx, q, specialsOwner, storeSpecials)
	if err != nil || !found {
		return nil, err
	}
	var list []GameEvent
	if err := json.Unmarshal(payload, &list); err != nil {
		log.WithError(err).Warn("Список особых событий не читается, начинаем с пустого")
		return nil, nil
	}
	return list, nil
}

func save(ctx context.Context, q sqlite.Querier, list []GameEvent) error {
	if list == nil {
		list = []GameEvent{}
	}
	payload, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("ошибка сериализации событий: %w", err)
	}
	return sqlite.PutRecord(ctx, q, specialsOwner, storeSpecials, payload)
}

func (r *SQLiteRepository) List(ctx context.Context) ([]GameEvent, error) {
	return load(ctx, r.db)
}

func (r *SQLiteRepository) Add(ctx context.Context, ev GameEvent) error {
	return r.update(ctx, func(list []GameEvent) ([]GameEvent, bool) {
		return append(list, ev), true
	})
}

func (r *SQLiteRepository) Remove(ctx context.Context, id string) (bool, error) {
	removed := false
	err := r.update(ctx, func(list []GameEvent) ([]GameEvent, bool) {
		out := list[:0]
		for _, ev := range list {
			if ev.ID == id {
				removed = true
				continue
			}
			out = append(out, ev)
		}
		return out, removed
	})
	return removed, err
}

func (r *SQLiteRepository) update(ctx context.Context, fn func([]GameEvent) ([]GameEvent, bool)) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	list, err := load(ctx, tx)
	if err != nil {
		return err
	}
	list, changed := fn(list)
	if !changed {
		return nil
	}
	if err := save(ctx, tx, list); err != nil {
		return err
	}
	return tx.Commit()
}
