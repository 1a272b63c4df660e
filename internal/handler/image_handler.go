package handler

import (
	"net/http"
	"strconv"

	"astrapix-server/internal/common/httpx"

	"github.com/gin-gonic/gin"
)

// Generate 生成图片并扣除 1 积分
func (h *ImageHandler) Generate(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Prompt string `json:"prompt" binding:"required,prompt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, http.StatusBadRequest, "prompt is required and must be at most 1000 characters")
		return
	}

	result, err := h.imageUseCase.Generate(c.Request.Context(), uid, req.Prompt)
	if err != nil {
		httpx.WriteServiceError(c, err, "image generation failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "image generated",
		"image":     result.Image,
		"image_url": result.Image.ImageURL,
		"balance":   result.Balance,
	})
}

func (h *ImageHandler) Gallery(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	images, err := h.imageUseCase.Gallery(c.Request.Context(), uid)
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to load gallery")
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

func (h *ImageHandler) Delete(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httpx.WriteError(c, http.StatusBadRequest, "invalid image id")
		return
	}

	if err := h.imageUseCase.Delete(c.Request.Context(), uid, uint(id)); err != nil {
		httpx.WriteServiceError(c, err, "failed to delete image")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "image deleted"})
}
