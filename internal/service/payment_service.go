package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"astrapix-server/internal/common"
	"astrapix-server/internal/config"
	"astrapix-server/internal/integration/gateway"
	"astrapix-server/internal/metrics"
	"astrapix-server/internal/model"
	"astrapix-server/internal/repository"

	"github.com/google/uuid"
)

// OrderResult 返回给前端用于拉起支付的信息。
type OrderResult struct {
	OrderID   string `json:"orderId"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	PublicKey string `json:"key"`
	Credits   int64  `json:"credits"`
	PlanID    string `json:"plan"`
}

// VerifyResult 验签入账结果。
type VerifyResult struct {
	Balance int64 `json:"balance"`
	Credits int64 `json:"credits"`
}

// Plans 返回服务端定义的充值套餐。
func (s *PaymentService) Plans() []config.Plan {
	return config.Get().Payment.Plans
}

// CreateOrder 按套餐创建网关订单；积分数写入订单 notes，验签时以此为准。
func (s *PaymentService) CreateOrder(ctx context.Context, userID uint, planID string) (*OrderResult, error) {
	cfg := config.Get().Payment
	plan, ok := cfg.FindPlan(strings.TrimSpace(planID))
	if !ok {
		return nil, common.NewValidationError("unknown plan")
	}

	currency := cfg.Currency
	if currency == "" {
		currency = "INR"
	}
	userIDStr := strconv.FormatUint(uint64(userID), 10)
	notes := map[string]string{
		"user_id": userIDStr,
		"credits": strconv.FormatInt(plan.Credits, 10),
		"plan":    plan.ID,
	}
	// Razorpay receipt 最长 40 字符
	receipt := "rcpt_" + userIDStr + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]

	order, err := s.gateway.CreateOrder(ctx, plan.AmountMinor, currency, receipt, notes)
	if err != nil {
		metrics.PaymentsTotal.WithLabelValues("create_order", "upstream_error").Inc()
		return nil, common.WrapServiceError(common.ErrorCodeUpstream, "failed to create payment order",
			errors.Join(ErrOrderCreationFailed, err))
	}
	metrics.PaymentsTotal.WithLabelValues("create_order", "success").Inc()

	return &OrderResult{
		OrderID:   order.ID,
		Amount:    order.Amount,
		Currency:  order.Currency,
		PublicKey: cfg.KeyID,
		Credits:   plan.Credits,
		PlanID:    plan.ID,
	}, nil
}

// VerifyPayment 校验签名后回查订单，按订单 notes 中的积分入账；同一订单只入账一次。
func (s *PaymentService) VerifyPayment(ctx context.Context, userID uint, orderID, paymentID, signature string) (*VerifyResult, error) {
	orderID = strings.TrimSpace(orderID)
	paymentID = strings.TrimSpace(paymentID)
	if orderID == "" || paymentID == "" || strings.TrimSpace(signature) == "" {
		return nil, common.NewValidationError("order id, payment id and signature are required")
	}

	if !gateway.VerifySignature(config.Get().Payment.KeySecret, orderID, paymentID, signature) {
		metrics.PaymentsTotal.WithLabelValues("verify", "invalid_signature").Inc()
		return nil, common.WrapServiceError(common.ErrorCodeValidation, "invalid payment signature", ErrInvalidSignature)
	}

	order, err := s.gateway.FetchOrder(ctx, orderID)
	if err != nil {
		metrics.PaymentsTotal.WithLabelValues("verify", "upstream_error").Inc()
		return nil, common.NewUpstreamError("failed to fetch payment order", err)
	}

	owner, err := strconv.ParseUint(order.Notes["user_id"], 10, 64)
	if err != nil || uint(owner) != userID {
		metrics.PaymentsTotal.WithLabelValues("verify", "owner_mismatch").Inc()
		return nil, common.NewForbiddenError("this order does not belong to your account")
	}
	credits, err := strconv.ParseInt(order.Notes["credits"], 10, 64)
	if err != nil || credits <= 0 {
		return nil, common.NewInternalError("order is missing credit information", err)
	}

	balance, err := s.paymentStore.RecordAndCredit(ctx, &model.Payment{
		UserID:    userID,
		OrderID:   order.ID,
		PaymentID: paymentID,
		Credits:   credits,
		Amount:    order.Amount,
		Currency:  order.Currency,
	})
	if err != nil {
		if errors.Is(err, repository.ErrPaymentExists) {
			metrics.PaymentsTotal.WithLabelValues("verify", "replayed").Inc()
			return nil, common.WrapServiceError(common.ErrorCodeConflict, "this payment has already been processed", ErrPaymentReplayed)
		}
		return nil, common.NewInternalError("failed to credit payment", err)
	}

	metrics.PaymentsTotal.WithLabelValues("verify", "success").Inc()
	metrics.CreditsGranted.WithLabelValues("payment").Add(float64(credits))
	return &VerifyResult{Balance: balance, Credits: credits}, nil
}

// History 返回用户已入账的支付记录。
func (s *PaymentService) History(ctx context.Context, userID uint) ([]model.Payment, error) {
	payments, err := s.paymentStore.ListByUserID(ctx, userID)
	if err != nil {
		return nil, common.NewInternalError("failed to load payment history", err)
	}
	return payments, nil
}
