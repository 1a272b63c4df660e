package handler

import (
	"net/http"

	"astrapix-server/internal/common/httpx"

	"github.com/gin-gonic/gin"
)

// verifyCaptcha 校验图形验证码，失败时直接写 400。
func (h *AuthHandler) verifyCaptcha(c *gin.Context, id, answer string) bool {
	if h.captchaService == nil || h.captchaService.Verify(id, answer) {
		return true
	}
	httpx.WriteError(c, http.StatusBadRequest, "invalid captcha")
	return false
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email         string `json:"email" binding:"required"`
		Password      string `json:"password" binding:"required"`
		CaptchaID     string `json:"captcha_id"`
		CaptchaAnswer string `json:"captcha_answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, http.StatusBadRequest, invalidParamsMessage)
		return
	}
	if !h.verifyCaptcha(c, req.CaptchaID, req.CaptchaAnswer) {
		return
	}

	result, err := h.authUseCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpx.WriteServiceError(c, err, "login failed, please try again later")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"token":   result.Token,
		"user":    result.User,
	})
}

// SendOTP 发送注册验证码
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req struct {
		Email         string `json:"email" binding:"required"`
		CaptchaID     string `json:"captcha_id"`
		CaptchaAnswer string `json:"captcha_answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, http.StatusBadRequest, invalidParamsMessage)
		return
	}
	if !h.verifyCaptcha(c, req.CaptchaID, req.CaptchaAnswer) {
		return
	}

	if err := h.authUseCase.SendOTP(c.Request.Context(), req.Email); err != nil {
		httpx.WriteServiceError(c, err, "failed to send verification code")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "verification code sent"})
}

// ResendOTP 重新发送注册验证码，旧验证码作废
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, http.StatusBadRequest, invalidParamsMessage)
		return
	}

	if err := h.authUseCase.ResendOTP(c.Request.Context(), req.Email); err != nil {
		httpx.WriteServiceError(c, err, "failed to send verification code")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "verification code resent"})
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		OTP   string `json:"otp" binding:"required,otp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, http.StatusBadRequest, "a 6-digit verification code is required")
		return
	}

	if err := h.authUseCase.VerifyOTP(c.Request.Context(), req.Email, req.OTP); err != nil {
		httpx.WriteServiceError(c, err, "verification failed, please try again later")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, http.StatusBadRequest, invalidParamsMessage)
		return
	}

	result, err := h.authUseCase.Signup(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		httpx.WriteServiceError(c, err, "registration failed, please try again later")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "registration successful",
		"token":   result.Token,
		"user":    result.User,
	})
}

// ForgotPassword 请求重置密码验证码
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email         string `json:"email" binding:"required"`
		CaptchaID     string `json:"captcha_id"`
		CaptchaAnswer string `json:"captcha_answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, http.StatusBadRequest, invalidParamsMessage)
		return
	}
	if !h.verifyCaptcha(c, req.CaptchaID, req.CaptchaAnswer) {
		return
	}

	if err := h.authUseCase.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		httpx.WriteServiceError(c, err, "failed to process request")
		return
	}
	// 不暴露邮箱是否注册
	c.JSON(http.StatusOK, gin.H{"message": "if the email is registered, a reset code has been sent"})
}

// ResetPassword 使用重置验证码设置新密码
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required"`
		OTP         string `json:"otp" binding:"required,otp"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, http.StatusBadRequest, invalidParamsMessage)
		return
	}

	if err := h.authUseCase.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		httpx.WriteServiceError(c, err, "failed to reset password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password has been reset, please log in"})
}
