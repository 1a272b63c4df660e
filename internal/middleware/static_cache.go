package middleware

import (
	"astrapix-server/internal/config"

	"github.com/gin-gonic/gin"
)

// StaticCacheMiddleware 为本地存储的生成图片添加 Cache-Control 头。
// 对象键包含随机 UUID，内容不会被覆盖，可以长期缓存。
func StaticCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cc := config.Get().Storage.CacheControl; cc != "" {
			c.Header("Cache-Control", cc)
		}
		c.Next()
	}
}
