package router

import (
	"astrapix-server/internal/handler"

	"github.com/gin-gonic/gin"
)

func registerUserRoutes(authed *gin.RouterGroup, h *handler.UserHandler) {
	authed.GET("/check/credits/:email", h.GetCredits)

	userGroup := authed.Group("/api/user")
	userGroup.GET("/profile", h.GetProfile)
	userGroup.PATCH("/username", h.UpdateUsername)
}

func registerImageRoutes(authed *gin.RouterGroup, generateLimiter gin.HandlerFunc, h *handler.ImageHandler) {
	generateGroup := authed.Group("/generate")
	generateGroup.POST("/generate", generateLimiter, h.Generate)
	generateGroup.GET("/gallery", h.Gallery)
	generateGroup.DELETE("/:id", h.Delete)
}

func registerPaymentRoutes(authed *gin.RouterGroup, h *handler.PaymentHandler) {
	paymentGroup := authed.Group("/api/payment")
	paymentGroup.GET("/plans", h.Plans)
	paymentGroup.POST("/create-order", h.CreateOrder)
	paymentGroup.POST("/verify-payment", h.VerifyPayment)
	paymentGroup.GET("/history", h.History)
}
