package middleware

import (
	"net/http"
	"strings"

	"astrapix-server/internal/common/httpx"
	"astrapix-server/internal/consts"
	"astrapix-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuth 校验 Bearer 登录令牌，并把用户身份写入上下文。
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取请求头 Authorization
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httpx.AbortWithError(c, http.StatusUnauthorized, "authentication required")
			return
		}

		// 检查格式是否为 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			httpx.AbortWithError(c, http.StatusUnauthorized, "malformed authorization header")
			return
		}

		claims, err := utils.ParseLoginToken(strings.TrimSpace(parts[1]))
		if err != nil || claims.ID == 0 {
			httpx.AbortWithError(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		c.Set(consts.ContextUserID, claims.ID)
		c.Set(consts.ContextEmail, claims.Email)
		c.Set(consts.ContextUsername, claims.Username)
		c.Next()
	}
}

// CurrentUserID 读取 JWTAuth 写入的用户 ID。
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(consts.ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

func CurrentEmail(c *gin.Context) string {
	return c.GetString(consts.ContextEmail)
}
