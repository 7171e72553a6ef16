// Package streak — repository.go содержит хранилище состояния стриков.
package streak

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reward-bot/internal/features/economy"
)

// Mutation — движение монет, которое коммитится вместе с состоянием.
type Mutation struct {
	Credit *economy.Entry
	Debit  *economy.Entry
}

// MutateFunc меняет состояние на месте. Ошибка откатывает всю транзакцию.
type MutateFunc func(st *State) (*Mutation, error)

// Record — состояние игрока для фоновых задач.
type Record struct {
	UserID     int64
	State      *State
	RemindedOn string // День последнего напоминания, "" — не было
}

// Repository хранит State по user_id.
// Mutate выполняет чтение, изменение, запись и движение монет атомарно.
type Repository interface {
	Get(ctx context.Context, userID int64) (*State, error)
	Mutate(ctx context.Context, userID int64, fn MutateFunc) error
	List(ctx context.Context) ([]Record, error)
	MarkReminded(ctx context.Context, userID int64, day string) error
}

// PostgresRepository хранит стрики в таблице streaks.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository создаёт репозиторий стриков.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectStreak = `
	SELECT last_claim_date, current_streak, longest_streak, total_days_claimed,
	       streak_protection_used, week_start_date
	FROM streaks
	WHERE user_id = $1
`

// Get возвращает состояние игрока. Нет записи — состояние по умолчанию.
func (r *PostgresRepository) Get(ctx context.Context, userID int64) (*State, error) {
	return scanState(r.db.QueryRow(ctx, selectStreak, userID), userID)
}

func scanState(row pgx.Row, userID int64) (*State, error) {
	var st State
	err := row.Scan(
		&st.LastClaimDate, &st.CurrentStreak, &st.LongestStreak,
		&st.TotalDaysClaimed, &st.StreakProtectionUsed, &st.WeekStartDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения стрика (user_id=%d): %w", userID, err)
	}
	if st.Sanitize() {
		log.WithField("user_id", userID).Warn("Испорченная запись стрика сброшена")
	}
	return &st, nil
}

// Mutate блокирует строку через FOR UPDATE и коммитит состояние вместе с монетами.
func (r *PostgresRepository) Mutate(ctx context.Context, userID int64, fn MutateFunc) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	st, err := scanState(tx.QueryRow(ctx, selectStreak+" FOR UPDATE", userID), userID)
	if err != nil {
		return err
	}

	m, err := fn(st)
	if err != nil {
		return err
	}
	if m != nil && m.Debit != nil {
		if err := economy.DebitTx(ctx, tx, userID, *m.Debit); err != nil {
			return err
		}
	}
	if m != nil && m.Credit != nil {
		if err := economy.CreditTx(ctx, tx, userID, *m.Credit); err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO streaks (user_id, last_claim_date, current_streak, longest_streak,
		                     total_days_claimed, streak_protection_used, week_start_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET last_claim_date = EXCLUDED.last_claim_date,
		    current_streak = EXCLUDED.current_streak,
		    longest_streak = EXCLUDED.longest_streak,
		    total_days_claimed = EXCLUDED.total_days_claimed,
		    streak_protection_used = EXCLUDED.streak_protection_used,
		    week_start_date = EXCLUDED.week_start_date,
		    updated_at = NOW()
	`, userID, st.LastClaimDate, st.CurrentStreak, st.LongestStreak,
		st.TotalDaysClaimed, st.StreakProtectionUsed, st.WeekStartDate)
	if err != nil {
		return fmt.Errorf("ошибка сохранения стрика: %w", err)
	}

	return tx.Commit(ctx)
}

// List возвращает все стрики. Используется кроном.
func (r *PostgresRepository) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, last_claim_date, current_streak, longest_streak, total_days_claimed,
		       streak_protection_used, week_start_date, COALESCE(reminder_date, '')
		FROM streaks
		ORDER BY user_id
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения стриков: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec Record
			st  State
		)
		if err := rows.Scan(
			&rec.UserID, &st.LastClaimDate, &st.CurrentStreak, &st.LongestStreak,
			&st.TotalDaysClaimed, &st.StreakProtectionUsed, &st.WeekStartDate, &rec.RemindedOn,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования стрика: %w", err)
		}
		st.Sanitize()
		rec.State = &st
		out = append(out, rec)
	}
	return out, rows.Err()
}

// MarkReminded запоминает день отправки напоминания.
func (r *PostgresRepository) MarkReminded(ctx context.Context, userID int64, day string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE streaks SET reminder_date = $2, updated_at = NOW() WHERE user_id = $1
	`, userID, day)
	if err != nil {
		return fmt.Errorf("ошибка отметки напоминания: %w", err)
	}
	return nil
}
