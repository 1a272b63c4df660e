package middleware

import "github.com/gin-gonic/gin"

// 生成图片可能来自对象存储域名，img-src 额外放行 https:
const contentSecurityPolicy = "default-src 'self'; img-src 'self' data: blob: https:; style-src 'self' 'unsafe-inline'; script-src 'self' https://checkout.razorpay.com; frame-src https://api.razorpay.com https://checkout.razorpay.com; connect-src 'self'"

// SecurityHeaders 添加安全相关的 HTTP 响应头
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 防止浏览器猜测内容类型
		c.Header("X-Content-Type-Options", "nosniff")

		// 防止点击劫持 (Clickjacking)
		c.Header("X-Frame-Options", "DENY")

		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// 支付弹窗需要加载 Razorpay 的脚本与 iframe
		c.Header("Content-Security-Policy", contentSecurityPolicy)

		c.Next()
	}
}
