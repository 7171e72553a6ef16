package streak

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reward-bot/internal/db/sqlite"
	"serotonyl.ru/reward-bot/internal/features/economy"
)

// Имена хранилищ в kv_records
const (
	storeStreak   = "streak"
	storeReminder = "streak_reminder"
)

type reminderRecord struct {
	Date string `json:"date"`
}

// SQLiteRepository хранит State как JSON-запись в kv_records.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository создаёт репозиторий поверх открытой базы.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// decodeState разбирает запись. Битая запись превращается в состояние по умолчанию.
func decodeState(userID int64, payload []byte) *State {
	var st State
	if err := json.Unmarshal(payload, &st); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Запись стрика не читается, используем значения по умолчанию")
		return DefaultState()
	}
	if st.Sanitize() {
		log.WithField("user_id", userID).Warn("Испорченная запись стрика сброшена")
	}
	return &st
}

func loadState(ctx context.Context, q sqlite.Querier, userID int64) (*State, error) {
	payload, found, err := sqlite.GetRecord(ctx, q, userID, storeStreak)
	if err != nil {
		return nil, err
	}
	if !found {
		return DefaultState(), nil
	}
	return decodeState(userID, payload), nil
}

func (r *SQLiteRepository) Get(ctx context.Context, userID int64) (*State, error) {
	return loadState(ctx, r.db, userID)
}

func (r *SQLiteRepository) Mutate(ctx context.Context, userID int64, fn MutateFunc) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	st, err := loadState(ctx, tx, userID)
	if err != nil {
		return err
	}

	m, err := fn(st)
	if err != nil {
		return err
	}
	if m != nil && m.Debit != nil {
		if err := economy.DebitSQLTx(ctx, tx, userID, *m.Debit); err != nil {
			return err
		}
	}
	if m != nil && m.Credit != nil {
		if err := economy.CreditSQLTx(ctx, tx, userID, *m.Credit); err != nil {
			return err
		}
	}

	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("ошибка сериализации стрика: %w", err)
	}
	if err := sqlite.PutRecord(ctx, tx, userID, storeStreak, payload); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) List(ctx context.Context) ([]Record, error) {
	states, err := sqlite.ListRecords(ctx, r.db, storeStreak)
	if err != nil {
		return nil, err
	}
	reminders, err := sqlite.ListRecords(ctx, r.db, storeReminder)
	if err != nil {
		return nil, err
	}
	remindedOn := make(map[int64]string, len(reminders))
	for _, rec := range reminders {
		var rr reminderRecord
		if err := json.Unmarshal(rec.Payload, &rr); err == nil {
			remindedOn[rec.UserID] = rr.Date
		}
	}

	out := make([]Record, 0, len(states))
	for _, rec := range states {
		out = append(out, Record{
			UserID:     rec.UserID,
			State:      decodeState(rec.UserID, rec.Payload),
			RemindedOn: remindedOn[rec.UserID],
		})
	}
	return out, nil
}

func (r *SQLiteRepository) MarkReminded(ctx context.Context, userID int64, day string) error {
	payload, err := json.Marshal(reminderRecord{Date: day})
	if err != nil {
		return err
	}
	return sqlite.PutRecord(ctx, r.db, userID, storeReminder, payload)
}
