package handler

import (
	"net/http"

	"astrapix-server/internal/common/httpx"

	"github.com/gin-gonic/gin"
)

func (h *PaymentHandler) Plans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": h.paymentService.Plans()})
}

// CreateOrder 按套餐创建支付订单，金额与积分由服务端决定
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Plan string `json:"plan" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, http.StatusBadRequest, invalidParamsMessage)
		return
	}

	order, err := h.paymentService.CreateOrder(c.Request.Context(), uid, req.Plan)
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to create order")
		return
	}
	c.JSON(http.StatusOK, order)
}

// VerifyPayment 校验支付签名并入账
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		OrderID   string `json:"razorpay_order_id" binding:"required"`
		PaymentID string `json:"razorpay_payment_id" binding:"required"`
		Signature string `json:"razorpay_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, http.StatusBadRequest, invalidParamsMessage)
		return
	}

	result, err := h.paymentService.VerifyPayment(c.Request.Context(), uid, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		httpx.WriteServiceError(c, err, "payment verification failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "payment verified",
		"balance": result.Balance,
		"credits": result.Credits,
	})
}

func (h *PaymentHandler) History(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	payments, err := h.paymentService.History(c.Request.Context(), uid)
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to load payment history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
