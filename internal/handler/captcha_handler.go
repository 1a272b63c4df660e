package handler

import (
	"net/http"

	"astrapix-server/internal/common/httpx"

	"github.com/gin-gonic/gin"
)

// GetCaptcha 获取图形验证码。未启用时只返回 enabled=false。
func (h *CaptchaHandler) GetCaptcha(c *gin.Context) {
	if !h.captchaService.Enabled() {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}

	challenge, err := h.captchaService.Generate()
	if err != nil {
		httpx.WriteError(c, http.StatusInternalServerError, "failed to generate captcha")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"enabled":       true,
		"captcha_id":    challenge.ID,
		"captcha_image": challenge.Image,
	})
}
