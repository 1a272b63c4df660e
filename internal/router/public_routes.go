package router

import (
	"astrapix-server/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func registerPublicRoutes(r *gin.Engine, api *gin.RouterGroup, h *handler.CaptchaHandler, authLimiter gin.HandlerFunc) {
	api.GET("/ping", handler.Ping)
	api.GET("/captcha", authLimiter, h.GetCaptcha)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
