package repository

import (
	"context"
	"testing"

	"astrapix-server/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试内容：验证支付入账会创建账本，且同一订单重复入账被拒绝。
func TestPaymentRepository_RecordAndCreditIdempotent(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	u := r.mustUser(t, "alice", 0)

	p := &model.Payment{UserID: u.ID, OrderID: "order_1", PaymentID: "pay_1", Credits: 100, Amount: 10000, Currency: "INR"}
	bal, err := r.pays.RecordAndCredit(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, int64(100), bal)

	replay := &model.Payment{UserID: u.ID, OrderID: "order_1", PaymentID: "pay_1", Credits: 100, Amount: 10000, Currency: "INR"}
	_, err = r.pays.RecordAndCredit(ctx, replay)
	assert.ErrorIs(t, err, ErrPaymentExists)

	got, err := r.credits.GetBalance(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got)

	list, err := r.pays.ListByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
