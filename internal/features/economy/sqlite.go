package economy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"serotonyl.ru/reward-bot/internal/common"
	"serotonyl.ru/reward-bot/internal/db/sqlite"
)

// SQLiteRepository хранит счёт в локальной базе SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository создаёт репозиторий поверх открытой базы.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetBalance(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	err := r.db.QueryRowContext(ctx, `SELECT balance FROM balances WHERE user_id = ?`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка получения баланса: %w", err)
	}
	return balance, nil
}

func (r *SQLiteRepository) GetTotalStats(ctx context.Context, userID int64) (*Balance, error) {
	b := Balance{UserID: userID}
	var createdMs, updatedMs int64
	err := r.db.QueryRowContext(ctx, `
		SELECT balance, total_earned, total_spent, created_at_ms, updated_at_ms
		FROM balances WHERE user_id = ?
	`, userID).Scan(&b.Balance, &b.TotalEarned, &b.TotalSpent, &createdMs, &updatedMs)
	if errors.Is(err, sql.ErrNoRows) {
		return &b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения статистики: %w", err)
	}
	b.CreatedAt = time.UnixMilli(createdMs)
	b.UpdatedAt = time.UnixMilli(updatedMs)
	return &b, nil
}

func (r *SQLiteRepository) AddBalance(ctx context.Context, userID int64, e Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	if err := CreditSQLTx(ctx, tx, userID, e); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) DeductBalance(ctx context.Context, userID int64, e Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	if err := DebitSQLTx(ctx, tx, userID, e); err != nil {
		return err
	}
	return tx.Commit()
}

// CreditSQLTx — то же, что CreditTx, для транзакции database/sql.
func CreditSQLTx(ctx context.Context, q sqlite.Querier, userID int64, e Entry) error {
	if e.Amount <= 0 {
		return common.ErrInvalidAmount
	}
	now := time.Now().UnixMilli()
	_, err := q.ExecContext(ctx, `
		INSERT INTO balances (user_id, balance, total_earned, total_spent, created_at_ms, updated_at_ms)
		VALUES (?, ?, ?, 0, ?, ?)
		ON CONFLICT (user_id) DO UPDATE
		SET balance = balance + excluded.balance,
		    total_earned = total_earned + excluded.total_earned,
		    updated_at_ms = excluded.updated_at_ms
	`, userID, e.Amount, e.Amount, now, now)
	if err != nil {
		return fmt.Errorf("ошибка начисления: %w", err)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO transactions (to_user_id, amount, transaction_type, description, created_at_ms)
		VALUES (?, ?, ?, ?, ?)
	`, userID, e.Amount, e.TxType, e.Description, now)
	if err != nil {
		return fmt.Errorf("ошибка записи транзакции: %w", err)
	}
	return nil
}

// DebitSQLTx — то же, что DebitTx, для транзакции database/sql.
func DebitSQLTx(ctx context.Context, q sqlite.Querier, userID int64, e Entry) error {
	if e.Amount <= 0 {
		return common.ErrInvalidAmount
	}

	var current int64
	err := q.QueryRowContext(ctx, `SELECT balance FROM balances WHERE user_id = ?`, userID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrInsufficientBalance
	}
	if err != nil {
		return fmt.Errorf("ошибка получения баланса: %w", err)
	}
	if current < e.Amount {
		return common.ErrInsufficientBalance
	}

	now := time.Now().UnixMilli()
	_, err = q.ExecContext(ctx, `
		UPDATE balances
		SET balance = balance - ?, total_spent = total_spent + ?, updated_at_ms = ?
		WHERE user_id = ?
	`, e.Amount, e.Amount, now, userID)
	if err != nil {
		return fmt.Errorf("ошибка списания: %w", err)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO transactions (from_user_id, amount, transaction_type, description, created_at_ms)
		VALUES (?, ?, ?, ?, ?)
	`, userID, e.Amount, e.TxType, e.Description, now)
	if err != nil {
		return fmt.Errorf("ошибка записи транзакции: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetTransactions(ctx context.Context, userID int64, limit int) ([]*Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, from_user_id, to_user_id, amount, transaction_type, description, created_at_ms
		FROM transactions
		WHERE from_user_id = ? OR to_user_id = ?
		ORDER BY created_at_ms DESC, id DESC
		LIMIT ?
	`, userID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения транзакций: %w", err)
	}
	defer rows.Close()

	var transactions []*Transaction
	for rows.Next() {
		var (
			t         Transaction
			from, to  sql.NullInt64
			createdMs int64
		)
		if err := rows.Scan(&t.ID, &from, &to, &t.Amount, &t.TransactionType, &t.Description, &createdMs); err != nil {
			return nil, fmt.Errorf("ошибка сканирования транзакции: %w", err)
		}
		if from.Valid {
			t.FromUserID = &from.Int64
		}
		if to.Valid {
			t.ToUserID = &to.Int64
		}
		t.CreatedAt = time.UnixMilli(createdMs)
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}
