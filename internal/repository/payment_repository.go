package repository

import (
	"context"

	"astrapix-server/internal/model"
)

type PaymentStore interface {
	// RecordAndCredit 写入支付记录并为 payment.UserID 入账 payment.Credits，返回新余额。
	// 同一 OrderID 已存在时返回 ErrPaymentExists，且不入账。
	RecordAndCredit(ctx context.Context, payment *model.Payment) (int64, error)
	ListByUserID(ctx context.Context, userID uint) ([]model.Payment, error)
}
