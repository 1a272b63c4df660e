package repository

import "context"

// CreditStore 积分账本。所有变更都是单条条件 SQL，不做读后写。
type CreditStore interface {
	// GetBalance 账本不存在时返回 gorm.ErrRecordNotFound。
	GetBalance(ctx context.Context, userID uint) (int64, error)
	// AddBalance 账本不存在时以 amount 创建，存在时原子累加，返回新余额。
	AddBalance(ctx context.Context, userID uint, amount int64) (int64, error)
	// DeductBalance 仅在 balance >= amount 时扣减，否则返回 ErrInsufficientBalance。
	DeductBalance(ctx context.Context, userID uint, amount int64) (int64, error)
}
