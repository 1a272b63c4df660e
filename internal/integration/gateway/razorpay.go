// Package gateway 对接 Razorpay 订单接口并校验支付签名。
package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"astrapix-server/internal/config"

	"github.com/tidwall/gjson"
)

var ErrGateway = errors.New("payment gateway error")

// Order 网关侧订单。Notes 由服务端创建订单时写入，是入账依据。
type Order struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
	Notes    map[string]string
}

// Client 支付网关。
type Client interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*Order, error)
	FetchOrder(ctx context.Context, orderID string) (*Order, error)
}

type RazorpayClient struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

func NewRazorpayClient(cfg config.PaymentConfig) *RazorpayClient {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.razorpay.com/v1"
	}
	return &RazorpayClient{
		baseURL:    strings.TrimRight(base, "/"),
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *RazorpayClient) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*Order, error) {
	payload, err := json.Marshal(map[string]any{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	})
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, http.MethodPost, "/orders", payload)
	if err != nil {
		return nil, err
	}
	return parseOrder(body)
}

func (c *RazorpayClient) FetchOrder(ctx context.Context, orderID string) (*Order, error) {
	body, err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return nil, err
	}
	return parseOrder(body)
}

func (c *RazorpayClient) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrGateway, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		desc := gjson.GetBytes(body, "error.description").String()
		if desc == "" {
			desc = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrGateway, resp.StatusCode, desc)
	}
	return body, nil
}

func parseOrder(body []byte) (*Order, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json", ErrGateway)
	}
	res := gjson.ParseBytes(body)
	id := res.Get("id").String()
	if id == "" {
		return nil, fmt.Errorf("%w: missing order id", ErrGateway)
	}

	notes := make(map[string]string)
	// notes 为空时 Razorpay 返回 []，ForEach 对数组同样安全
	res.Get("notes").ForEach(func(k, v gjson.Result) bool {
		if k.Type == gjson.String {
			notes[k.String()] = v.String()
		}
		return true
	})

	return &Order{
		ID:       id,
		Amount:   res.Get("amount").Int(),
		Currency: res.Get("currency").String(),
		Receipt:  res.Get("receipt").String(),
		Status:   res.Get("status").String(),
		Notes:    notes,
	}, nil
}

// Signature 计算 hex(HMAC_SHA256(secret, orderID + "|" + paymentID))。
func Signature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature 以常量时间比较客户端提交的签名。
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected := Signature(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}
