package router

import (
	"astrapix-server/internal/handler"
	"astrapix-server/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Router struct {
	auth        *handler.AuthHandler
	user        *handler.UserHandler
	image       *handler.ImageHandler
	payment     *handler.PaymentHandler
	captcha     *handler.CaptchaHandler
	redisClient *redis.Client
}

// NewRouter redisClient 可为 nil，此时限流退化为进程内实现。
func NewRouter(
	auth *handler.AuthHandler,
	user *handler.UserHandler,
	image *handler.ImageHandler,
	payment *handler.PaymentHandler,
	captcha *handler.CaptchaHandler,
	redisClient *redis.Client,
) *Router {
	return &Router{
		auth:        auth,
		user:        user,
		image:       image,
		payment:     payment,
		captcha:     captcha,
		redisClient: redisClient,
	}
}

func (rt *Router) Init(r *gin.Engine) {
	r.Use(middleware.RequestLogger(), middleware.Recovery())
	// 注册全局安全标头中间件
	r.Use(middleware.SecurityHeaders())
	// 所有接口只接收 JSON，统一限制请求体大小
	r.Use(middleware.BodyLimitMiddleware())

	// 认证相关接口共用同一个限流实例
	authLimiter := middleware.RateLimitMiddleware(rt.redisClient, "auth", middleware.AuthLimit)
	// 发送验证码邮件的最小间隔
	otpLimiter := middleware.IntervalRateMiddleware(rt.redisClient, "otp", middleware.OTPInterval)
	generateLimiter := middleware.RateLimitMiddleware(rt.redisClient, "generate", middleware.GenerateLimit)

	api := r.Group("/api")
	registerPublicRoutes(r, api, rt.captcha, authLimiter)
	registerAuthRoutes(r, api, authLimiter, otpLimiter, rt.auth)

	authed := r.Group("/", middleware.JWTAuth())
	registerUserRoutes(authed, rt.user)
	registerImageRoutes(authed, generateLimiter, rt.image)
	registerPaymentRoutes(authed, rt.payment)
}
