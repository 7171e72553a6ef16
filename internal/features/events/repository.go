package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository хранит особые события, добавленные админами.
type Repository interface {
	List(ctx context.Context) ([]GameEvent, error)
	Add(ctx context.Context, ev GameEvent) error
	Remove(ctx context.Context, id string) (bool, error)
}

// PostgresRepository хранит особые события в таблице special_events.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository создаёт репозиторий событий.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]GameEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, type, name, description, icon, starts_at, ends_at, bonuses
		FROM special_events
		ORDER BY starts_at
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения событий: %w", err)
	}
	defer rows.Close()

	var out []GameEvent
	for rows.Next() {
		var (
			ev      GameEvent
			typ     string
			bonuses []byte
		)
		if err := rows.Scan(&ev.ID, &typ, &ev.Name, &ev.Description, &ev.Icon, &ev.Start, &ev.End, &bonuses); err != nil {
			return nil, fmt.Errorf("ошибка сканирования события: %w", err)
		}
		ev.Type = EventType(typ)
		if err := json.Unmarshal(bonuses, &ev.Bonuses); err != nil {
			return nil, fmt.Errorf("некорректные бонусы события %s: %w", ev.ID, err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Add(ctx context.Context, ev GameEvent) error {
	bonuses, err := json.Marshal(ev.Bonuses)
	if err != nil {
		return fmt.Errorf("ошибка сериализации бонусов: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO special_events (id, type, name, description, icon, starts_at, ends_at, bonuses)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb)
	`, ev.ID, string(ev.Type), ev.Name, ev.Description, ev.Icon, ev.Start, ev.End, string(bonuses))
	if err != nil {
		return fmt.Errorf("ошибка сохранения события: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM special_events WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("ошибка удаления события: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
