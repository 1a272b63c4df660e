package service

import (
	"context"
	"errors"

	"astrapix-server/internal/common"
	"astrapix-server/internal/metrics"
	"astrapix-server/internal/repository"
)

// Get 查询余额，账本不存在时返回 NotFound。
func (s *CreditService) Get(ctx context.Context, userID uint) (int64, error) {
	balance, err := s.creditStore.GetBalance(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return 0, common.WrapServiceError(common.ErrorCodeNotFound, "credit account not found", ErrLedgerNotFound)
		}
		return 0, common.NewInternalError("failed to read balance", err)
	}
	return balance, nil
}

// Credit 入账，账本不存在时创建。source 仅用于指标。
func (s *CreditService) Credit(ctx context.Context, userID uint, amount int64, source string) (int64, error) {
	if amount <= 0 {
		return 0, common.WrapServiceError(common.ErrorCodeValidation, "amount must be a positive integer", ErrInvalidAmount)
	}
	balance, err := s.creditStore.AddBalance(ctx, userID, amount)
	if err != nil {
		return 0, common.NewInternalError("failed to add credits", err)
	}
	metrics.CreditsGranted.WithLabelValues(source).Add(float64(amount))
	return balance, nil
}

// Debit 扣减，余额不足时返回 InsufficientBalance 且不修改账本。
func (s *CreditService) Debit(ctx context.Context, userID uint, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, common.WrapServiceError(common.ErrorCodeValidation, "amount must be a positive integer", ErrInvalidAmount)
	}
	balance, err := s.creditStore.DeductBalance(ctx, userID, amount)
	if err != nil {
		return 0, mapLedgerError(err)
	}
	return balance, nil
}

func mapLedgerError(err error) error {
	switch {
	case errors.Is(err, repository.ErrInsufficientBalance):
		return common.WrapServiceError(common.ErrorCodeForbidden, "insufficient credits", ErrInsufficientBalance)
	case repository.IsNotFound(err):
		return common.WrapServiceError(common.ErrorCodeNotFound, "credit account not found", ErrLedgerNotFound)
	default:
		return common.NewInternalError("credit ledger error", err)
	}
}
