package handler

import (
	"net/http"

	"astrapix-server/internal/common/httpx"

	"github.com/gin-gonic/gin"
)

// GetProfile 获取当前用户资料与积分
func (h *UserHandler) GetProfile(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.userUseCase.GetProfile(c.Request.Context(), uid)
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateUsername(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, http.StatusBadRequest, invalidParamsMessage)
		return
	}

	user, err := h.userUseCase.UpdateUsername(c.Request.Context(), uid, req.Username)
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to update username")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "username updated", "user": user})
}

// GetCredits 按邮箱查询积分，只能查询自己。
func (h *UserHandler) GetCredits(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	balance, err := h.userUseCase.GetCreditsByEmail(c.Request.Context(), uid, c.Param("email"))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to read balance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"credits": balance})
}
