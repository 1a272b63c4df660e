package handler

import (
	"net/http"

	"astrapix-server/internal/common/httpx"
	"astrapix-server/internal/middleware"
	"astrapix-server/internal/service"
	"astrapix-server/internal/usecase/app"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUseCase    *app.AuthUseCase
	captchaService *service.CaptchaService
}

type UserHandler struct {
	userUseCase *app.UserUseCase
}

type ImageHandler struct {
	imageUseCase *app.ImageUseCase
}

type PaymentHandler struct {
	paymentService *service.PaymentService
}

type CaptchaHandler struct {
	captchaService *service.CaptchaService
}

func NewAuthHandler(authUseCase *app.AuthUseCase, captchaService *service.CaptchaService) *AuthHandler {
	return &AuthHandler{authUseCase: authUseCase, captchaService: captchaService}
}

func NewUserHandler(userUseCase *app.UserUseCase) *UserHandler {
	return &UserHandler{userUseCase: userUseCase}
}

func NewImageHandler(imageUseCase *app.ImageUseCase) *ImageHandler {
	return &ImageHandler{imageUseCase: imageUseCase}
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func NewCaptchaHandler(captchaService *service.CaptchaService) *CaptchaHandler {
	return &CaptchaHandler{captchaService: captchaService}
}

const invalidParamsMessage = "invalid request parameters"

// currentUserID 从 JWT 中间件写入的上下文取用户 ID，缺失时直接写 401。
func currentUserID(c *gin.Context) (uint, bool) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		httpx.WriteError(c, http.StatusUnauthorized, "authentication required")
		return 0, false
	}
	return uid, true
}

// Ping 健康检查
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
