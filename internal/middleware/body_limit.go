package middleware

import (
	"net/http"

	"astrapix-server/internal/common/httpx"
	"astrapix-server/internal/config"

	"github.com/gin-gonic/gin"
)

const defaultMaxBodyBytes int64 = 1 << 20

// BodyLimitMiddleware 限制请求体大小，上限取 server.max_body_bytes。
// 所有接口都只接收 JSON，不存在大文件上传。
func BodyLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		maxBytes := config.Get().Server.MaxBodyBytes
		if maxBytes <= 0 {
			maxBytes = defaultMaxBodyBytes
		}

		if c.Request.ContentLength > maxBytes {
			httpx.AbortWithError(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}

		// Content-Length 缺失或伪造时由 MaxBytesReader 兜底
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
