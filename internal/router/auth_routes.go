package router

import (
	"astrapix-server/internal/handler"

	"github.com/gin-gonic/gin"
)

func registerAuthRoutes(r *gin.Engine, api *gin.RouterGroup, authLimiter, otpLimiter gin.HandlerFunc, h *handler.AuthHandler) {
	api.POST("/login", authLimiter, h.Login)
	api.POST("/signup", authLimiter, h.Signup)

	api.POST("/send-otp", authLimiter, otpLimiter, h.SendOTP)
	api.POST("/resend-otp", authLimiter, otpLimiter, h.ResendOTP)
	api.POST("/verify-otp", authLimiter, h.VerifyOTP)

	api.POST("/forgot-password", authLimiter, otpLimiter, h.ForgotPassword)
	api.POST("/auth/verify-otp", authLimiter, h.ResetPassword)

	google := r.Group("/auth/google")
	google.GET("", authLimiter, h.GoogleLogin)
	google.GET("/callback", authLimiter, h.GoogleCallback)
}
