package app

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"astrapix-server/internal/common"
	"astrapix-server/internal/config"
	"astrapix-server/internal/consts"
	"astrapix-server/internal/integration/storage"
	"astrapix-server/internal/logger"
	"astrapix-server/internal/metrics"
	"astrapix-server/internal/model"
	"astrapix-server/internal/repository"
	"astrapix-server/internal/service"
	"astrapix-server/internal/utils"

	"go.uber.org/zap"
)

// GenerateResult 生成成功后的图片与剩余积分。
type GenerateResult struct {
	Image   *model.Image `json:"image"`
	Balance int64        `json:"balance"`
}

// Generate 生成图片：预检余额 -> 调用生成服务 -> 上传 -> 同一事务扣费并落库。
// 落库失败时删除已上传对象，调用方收到错误，不会出现免费生成。
func (c *ImageUseCase) Generate(ctx context.Context, userID uint, prompt string) (*GenerateResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, common.NewValidationError("prompt is required")
	}
	if utf8.RuneCountInString(prompt) > consts.MaxPromptRunes {
		return nil, common.NewValidationError("prompt is too long")
	}

	balance, err := c.creditService.Get(ctx, userID)
	if err != nil {
		if common.IsCode(err, common.ErrorCodeNotFound) {
			return nil, insufficientCredits()
		}
		return nil, err
	}
	if balance < consts.GenerationCost {
		return nil, insufficientCredits()
	}

	started := time.Now()
	data, err := c.generator.Generate(ctx, prompt)
	metrics.GenerationDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("upstream_error").Inc()
		logger.L().Warn("⚠️ 图片生成失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, common.WrapServiceError(common.ErrorCodeUpstream, "image generation failed", errors.Join(service.ErrGenerationFailed, err))
	}

	contentType, ext, ok := utils.DetectImageType(data)
	if !ok {
		metrics.GenerationsTotal.WithLabelValues("upstream_error").Inc()
		return nil, common.WrapServiceError(common.ErrorCodeUpstream, "image generation failed", service.ErrGenerationFailed)
	}

	key := storage.NewObjectKey(config.Get().Storage.Prefix, userID, ext)
	url, err := c.objectStore.Put(ctx, key, data, contentType)
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("storage_error").Inc()
		return nil, common.NewUpstreamError("failed to store generated image", err)
	}

	image := &model.Image{
		UserID:      userID,
		Prompt:      prompt,
		ImageURL:    url,
		StorageKey:  key,
		GeneratedAt: time.Now(),
	}
	newBalance, err := c.imageStore.CreateCharged(ctx, image, consts.GenerationCost)
	if err != nil {
		c.imageService.RemoveObject(context.WithoutCancel(ctx), key)
		if errors.Is(err, repository.ErrInsufficientBalance) || repository.IsNotFound(err) {
			return nil, insufficientCredits()
		}
		metrics.GenerationsTotal.WithLabelValues("error").Inc()
		return nil, common.NewInternalError("failed to save generated image", err)
	}

	metrics.GenerationsTotal.WithLabelValues("success").Inc()
	return &GenerateResult{Image: image, Balance: newBalance}, nil
}

func insufficientCredits() error {
	metrics.GenerationsTotal.WithLabelValues("insufficient_balance").Inc()
	return common.WrapServiceError(common.ErrorCodeForbidden, "insufficient credits", service.ErrInsufficientBalance)
}

// Gallery 返回用户图片，最新在前。
func (c *ImageUseCase) Gallery(ctx context.Context, userID uint) ([]model.Image, error) {
	return c.imageService.List(ctx, userID)
}

// Delete 删除用户自己的图片。
func (c *ImageUseCase) Delete(ctx context.Context, userID, imageID uint) error {
	return c.imageService.Delete(ctx, userID, imageID)
}
