package handler

import (
	"net/http"
	"testing"

	"astrapix-server/internal/config"
	"astrapix-server/internal/integration/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(orderID, paymentID string) string {
	return gateway.Signature(config.Get().Payment.KeySecret, orderID, paymentID)
}

// 测试内容：验证下单 -> 验签入账 -> 历史记录，重复验签返回 409 且不重复入账。
func TestPaymentHandler_OrderVerifyHistory(t *testing.T) {
	env := setupEnv(t)
	_, token := env.mustUser(t, "buyer", 10)

	w := env.do(http.MethodPost, "/api/payment/create-order", token, map[string]string{"plan": "basic"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	order := decode(t, w)
	orderID := order["orderId"].(string)
	assert.Equal(t, float64(10000), order["amount"])
	assert.Equal(t, "rzp_test_key", order["key"])

	verify := map[string]string{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  sign(orderID, "pay_1"),
	}
	w = env.do(http.MethodPost, "/api/payment/verify-payment", token, verify)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(110), decode(t, w)["balance"])

	w = env.do(http.MethodPost, "/api/payment/verify-payment", token, verify)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodGet, "/api/payment/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["payments"], 1)
}

// 测试内容：验证签名错误返回 400 且余额不变。
func TestPaymentHandler_InvalidSignature(t *testing.T) {
	env := setupEnv(t)
	u, token := env.mustUser(t, "cheater", 5)

	w := env.do(http.MethodPost, "/api/payment/create-order", token, map[string]string{"plan": "advanced"})
	require.Equal(t, http.StatusOK, w.Code)
	orderID := decode(t, w)["orderId"].(string)

	w = env.do(http.MethodPost, "/api/payment/verify-payment", token, map[string]string{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": "pay_x",
		"razorpay_signature":  "deadbeef",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	balance, err := env.repos.Credit.GetBalance(t.Context(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), balance)
}

// 测试内容：验证未知套餐 400、网关失败 502、套餐列表可读取。
func TestPaymentHandler_PlansAndErrors(t *testing.T) {
	env := setupEnv(t)
	_, token := env.mustUser(t, "shopper", 0)

	w := env.do(http.MethodGet, "/api/payment/plans", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["plans"], 2)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/payment/create-order", token, map[string]string{"plan": "gold"}).Code)

	env.gateway.CreateErr = gateway.ErrGateway
	assert.Equal(t, http.StatusBadGateway, env.do(http.MethodPost, "/api/payment/create-order", token, map[string]string{"plan": "basic"}).Code)
}
