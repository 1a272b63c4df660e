package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"astrapix-server/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *RazorpayClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewRazorpayClient(config.PaymentConfig{BaseURL: srv.URL, KeyID: "rzp_key", KeySecret: "rzp_secret"})
}

// 测试内容：验证创建订单携带 Basic 认证与 notes，并解析返回的订单。
func TestRazorpayClient_CreateOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_key", user)
		assert.Equal(t, "rzp_secret", pass)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.EqualValues(t, 10000, req["amount"])
		assert.Equal(t, "INR", req["currency"])

		_, _ = w.Write([]byte(`{"id":"order_1","amount":10000,"currency":"INR","receipt":"r1","status":"created","notes":{"user_id":"7","credits":"100"}}`))
	})

	o, err := c.CreateOrder(context.Background(), 10000, "INR", "r1", map[string]string{"user_id": "7", "credits": "100"})
	require.NoError(t, err)
	assert.Equal(t, "order_1", o.ID)
	assert.Equal(t, int64(10000), o.Amount)
	assert.Equal(t, "100", o.Notes["credits"])
	assert.Equal(t, "7", o.Notes["user_id"])
}

// 测试内容：验证查询订单时 notes 为数值或空数组均可解析。
func TestRazorpayClient_FetchOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/orders/order_num":
			_, _ = w.Write([]byte(`{"id":"order_num","amount":500,"currency":"INR","notes":{"user_id":3,"credits":50}}`))
		case "/orders/order_empty":
			_, _ = w.Write([]byte(`{"id":"order_empty","amount":500,"currency":"INR","notes":[]}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The id provided does not exist"}}`))
		}
	})

	o, err := c.FetchOrder(context.Background(), "order_num")
	require.NoError(t, err)
	assert.Equal(t, "3", o.Notes["user_id"])
	assert.Equal(t, "50", o.Notes["credits"])

	o, err = c.FetchOrder(context.Background(), "order_empty")
	require.NoError(t, err)
	assert.Empty(t, o.Notes)

	_, err = c.FetchOrder(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGateway)
	assert.Contains(t, err.Error(), "does not exist")
}

// 测试内容：验证签名计算与常量时间校验。
func TestVerifySignature(t *testing.T) {
	sig := Signature("secret", "order_1", "pay_1")
	assert.Len(t, sig, 64)
	assert.True(t, VerifySignature("secret", "order_1", "pay_1", sig))
	assert.False(t, VerifySignature("secret", "order_1", "pay_2", sig))
	assert.False(t, VerifySignature("other", "order_1", "pay_1", sig))
	assert.False(t, VerifySignature("secret", "order_1", "pay_1", ""))
	assert.False(t, VerifySignature("", "order_1", "pay_1", sig))
}
