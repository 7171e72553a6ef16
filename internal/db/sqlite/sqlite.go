// Package sqlite открывает локальную базу SQLite — хранилище «на устройстве».
// Состояние стрика и список особых событий лежат в key-value таблице
// kv_records как JSON-записи, журнал монет — в обычных таблицах.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// MemoryPath — путь для базы в памяти (тесты).
const MemoryPath = ":memory:"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS kv_records (
		user_id INTEGER NOT NULL,
		store TEXT NOT NULL,
		payload TEXT NOT NULL,
		updated_at_ms INTEGER NOT NULL,
		PRIMARY KEY (user_id, store)
	)`,
	`CREATE TABLE IF NOT EXISTS balances (
		user_id INTEGER PRIMARY KEY,
		balance INTEGER NOT NULL DEFAULT 0,
		total_earned INTEGER NOT NULL DEFAULT 0,
		total_spent INTEGER NOT NULL DEFAULT 0,
		created_at_ms INTEGER NOT NULL,
		updated_at_ms INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		from_user_id INTEGER,
		to_user_id INTEGER,
		amount INTEGER NOT NULL,
		transaction_type TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at_ms INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_to_user ON transactions(to_user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_from_user ON transactions(from_user_id)`,
}

// Open открывает (или создаёт) базу по пути dbPath и применяет схему.
// Одно соединение: SQLite сериализует запись, а транзакции не пересекаются.
func Open(dbPath string) (*sql.DB, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("пустой путь к базе sqlite")
	}
	if dbPath != MemoryPath {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, fmt.Errorf("не удалось создать каталог базы: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pragmas := []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ошибка %s: %w", p, err)
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite недоступна: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ошибка создания схемы: %w", err)
		}
	}

	log.WithField("path", dbPath).Info("Локальная база SQLite открыта")
	return db, nil
}

// GetRecord читает JSON-запись из kv_records. found=false, если записи нет.
func GetRecord(ctx context.Context, q Querier, userID int64, store string) (payload []byte, found bool, err error) {
	var raw string
	err = q.QueryRowContext(ctx,
		`SELECT payload FROM kv_records WHERE user_id = ? AND store = ?`, userID, store,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ошибка чтения записи %s/%d: %w", store, userID, err)
	}
	return []byte(raw), true, nil
}

// PutRecord записывает JSON-запись (upsert).
func PutRecord(ctx context.Context, q Querier, userID int64, store string, payload []byte) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO kv_records (user_id, store, payload, updated_at_ms)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, store) DO UPDATE
		SET payload = excluded.payload, updated_at_ms = excluded.updated_at_ms
	`, userID, store, string(payload), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("ошибка записи %s/%d: %w", store, userID, err)
	}
	return nil
}

// Record — одна строка kv_records.
type Record struct {
	UserID  int64
	Payload []byte
}

// ListRecords возвращает все записи хранилища store.
func ListRecords(ctx context.Context, q Querier, store string) ([]Record, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT user_id, payload FROM kv_records WHERE store = ? ORDER BY user_id`, store)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения хранилища %s: %w", store, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec Record
			raw string
		)
		if err := rows.Scan(&rec.UserID, &raw); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи: %w", err)
		}
		rec.Payload = []byte(raw)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Querier — общее для *sql.DB и *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
