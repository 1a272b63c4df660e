package handler

import (
	"net/http"
	"net/url"
	"strings"

	"astrapix-server/internal/common/httpx"
	"astrapix-server/internal/config"
	"astrapix-server/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	oauthStateCookie = "astrapix_oauth_state"
	oauthStateMaxAge = 600
)

// GoogleLogin 跳转到 Google 授权页，state 写入短期 cookie 供回调校验。
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	authURL, ok := h.authUseCase.GoogleAuthURL(state)
	if !ok {
		httpx.WriteError(c, http.StatusNotFound, "google sign-in is not enabled")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/auth/google", "", isRelease(), true)
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback 校验 state 并完成登录，最终带着令牌重定向回前端。
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	expected, _ := c.Cookie(oauthStateCookie)
	// 一次性 state，读取后立即清除
	c.SetCookie(oauthStateCookie, "", -1, "/auth/google", "", isRelease(), true)

	if errParam := c.Query("error"); errParam != "" {
		redirectToFrontend(c, url.Values{"error": {errParam}})
		return
	}
	state := c.Query("state")
	if expected == "" || state == "" || state != expected {
		redirectToFrontend(c, url.Values{"error": {"invalid_state"}})
		return
	}
	code := c.Query("code")
	if code == "" {
		redirectToFrontend(c, url.Values{"error": {"missing_code"}})
		return
	}

	result, err := h.authUseCase.GoogleLogin(c.Request.Context(), code)
	if err != nil {
		logger.L().Warn("google sign-in failed", zap.Error(err))
		redirectToFrontend(c, url.Values{"error": {"google_login_failed"}})
		return
	}
	redirectToFrontend(c, url.Values{"token": {result.Token}})
}

func redirectToFrontend(c *gin.Context, query url.Values) {
	base := strings.TrimRight(config.Get().Server.FrontendURL, "/")
	c.Redirect(http.StatusFound, base+"/auth/callback?"+query.Encode())
}

func isRelease() bool {
	return config.Get().Server.Mode == gin.ReleaseMode
}
