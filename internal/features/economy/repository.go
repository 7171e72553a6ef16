// Package economy — repository.go содержит SQL-запросы к таблицам balances и transactions.
// Все денежные операции выполняются в транзакциях БД.
package economy

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/reward-bot/internal/common"
)

// Repository — хранилище счёта. Реализации: PostgreSQL и SQLite.
type Repository interface {
	GetBalance(ctx context.Context, userID int64) (int64, error)
	GetTotalStats(ctx context.Context, userID int64) (*Balance, error)
	AddBalance(ctx context.Context, userID int64, e Entry) error
	DeductBalance(ctx context.Context, userID int64, e Entry) error
	GetTransactions(ctx context.Context, userID int64, limit int) ([]*Transaction, error)
}

// PostgresRepository хранит счёт в PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository создаёт репозиторий экономики.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetBalance возвращает текущий баланс. Нет записи — 0.
func (r *PostgresRepository) GetBalance(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, `SELECT balance FROM balances WHERE user_id = $1`, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка получения баланса: %w", err)
	}
	return balance, nil
}

// GetTotalStats возвращает полную статистику счёта.
func (r *PostgresRepository) GetTotalStats(ctx context.Context, userID int64) (*Balance, error) {
	b := Balance{UserID: userID}
	err := r.db.QueryRow(ctx, `
		SELECT balance, total_earned, total_spent, created_at, updated_at
		FROM balances
		WHERE user_id = $1
	`, userID).Scan(&b.Balance, &b.TotalEarned, &b.TotalSpent, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения статистики: %w", err)
	}
	return &b, nil
}

// AddBalance начисляет монеты в отдельной транзакции.
func (r *PostgresRepository) AddBalance(ctx context.Context, userID int64, e Entry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := CreditTx(ctx, tx, userID, e); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// DeductBalance списывает монеты в отдельной транзакции.
func (r *PostgresRepository) DeductBalance(ctx context.Context, userID int64, e Entry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := DebitTx(ctx, tx, userID, e); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// CreditTx начисляет монеты внутри чужой транзакции.
// Так стрик и журнал коммитятся вместе: либо оба, либо ничего.
func CreditTx(ctx context.Context, tx pgx.Tx, userID int64, e Entry) error {
	if e.Amount <= 0 {
		return common.ErrInvalidAmount
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO balances (user_id, balance, total_earned, total_spent)
		VALUES ($1, $2, $2, 0)
		ON CONFLICT (user_id) DO UPDATE
		SET balance = balances.balance + EXCLUDED.balance,
		    total_earned = balances.total_earned + EXCLUDED.total_earned,
		    updated_at = NOW()
	`, userID, e.Amount)
	if err != nil {
		return fmt.Errorf("ошибка начисления: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (to_user_id, amount, transaction_type, description)
		VALUES ($1, $2, $3, $4)
	`, userID, e.Amount, e.TxType, e.Description)
	if err != nil {
		return fmt.Errorf("ошибка записи транзакции: %w", err)
	}
	return nil
}

// DebitTx списывает монеты внутри чужой транзакции.
// Строка баланса блокируется через FOR UPDATE.
func DebitTx(ctx context.Context, tx pgx.Tx, userID int64, e Entry) error {
	if e.Amount <= 0 {
		return common.ErrInvalidAmount
	}

	var current int64
	err := tx.QueryRow(ctx, `
		SELECT balance FROM balances WHERE user_id = $1 FOR UPDATE
	`, userID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.ErrInsufficientBalance
	}
	if err != nil {
		return fmt.Errorf("ошибка получения баланса: %w", err)
	}
	if current < e.Amount {
		return common.ErrInsufficientBalance
	}

	_, err = tx.Exec(ctx, `
		UPDATE balances
		SET balance = balance - $2, total_spent = total_spent + $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, e.Amount)
	if err != nil {
		return fmt.Errorf("ошибка списания: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (from_user_id, amount, transaction_type, description)
		VALUES ($1, $2, $3, $4)
	`, userID, e.Amount, e.TxType, e.Description)
	if err != nil {
		return fmt.Errorf("ошибка записи транзакции: %w", err)
	}
	return nil
}

// GetTransactions возвращает последние N транзакций пользователя.
func (r *PostgresRepository) GetTransactions(ctx context.Context, userID int64, limit int) ([]*Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, from_user_id, to_user_id, amount, transaction_type, description, created_at
		FROM transactions
		WHERE from_user_id = $1 OR to_user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения транзакций: %w", err)
	}
	defer rows.Close()

	var transactions []*Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(
			&t.ID, &t.FromUserID, &t.ToUserID,
			&t.Amount, &t.TransactionType, &t.Description, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования транзакции: %w", err)
		}
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}
