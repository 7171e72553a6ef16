// Package economy — service.go содержит бизнес-логику счёта:
// валидация сумм, баланс и история транзакций.
package economy

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reward-bot/internal/common"
)

// Service управляет монетами игроков.
type Service struct {
	repo Repository
	loc  *time.Location // Пояс для дат в истории
}

// NewService создаёт новый сервис экономики.
func NewService(repo Repository, loc *time.Location) *Service {
	return &Service{repo: repo, loc: loc}
}

// GetBalance возвращает текущий баланс пользователя.
func (s *Service) GetBalance(ctx context.Context, userID int64) (int64, error) {
	return s.repo.GetBalance(ctx, userID)
}

// GetStats возвращает баланс вместе с суммами начислений и трат.
func (s *Service) GetStats(ctx context.Context, userID int64) (*Balance, error) {
	return s.repo.GetTotalStats(ctx, userID)
}

// AddBalance начисляет монеты пользователю.
func (s *Service) AddBalance(ctx context.Context, userID int64, e Entry) error {
	if e.Amount <= 0 {
		return common.ErrInvalidAmount
	}
	if err := s.repo.AddBalance(ctx, userID, e); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"user_id": userID,
		"amount":  e.Amount,
		"type":    e.TxType,
	}).Info("Монеты начислены")
	return nil
}

// DeductBalance списывает монеты. Нехватка — common.ErrInsufficientBalance.
func (s *Service) DeductBalance(ctx context.Context, userID int64, e Entry) error {
	if e.Amount <= 0 {
		return common.ErrInvalidAmount
	}
	return s.repo.DeductBalance(ctx, userID, e)
}

// GetTransactionHistory возвращает отформатированную историю последних транзакций.
func (s *Service) GetTransactionHistory(ctx context.Context, userID int64) (string, error) {
	transactions, err := s.repo.GetTransactions(ctx, userID, HistoryLimit)
	if err != nil {
		return "", err
	}

	if len(transactions) == 0 {
		return "📋 У вас пока нет транзакций", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 Последние %d транзакций:\n\n", len(transactions)))

	for i, tx := range transactions {
		amount := tx.Amount
		// Списание показываем со знаком минус
		if tx.FromUserID != nil && *tx.FromUserID == userID {
			amount = -amount
		}
		sb.WriteString(fmt.Sprintf("%d. %s | %s | %s\n",
			i+1,
			common.FormatDateTime(tx.CreatedAt, s.loc),
			common.FormatCoinsAmount(amount),
			tx.Description,
		))
	}

	return sb.String(), nil
}
