package service

import (
	"context"

	"astrapix-server/internal/common"
	"astrapix-server/internal/logger"
	"astrapix-server/internal/model"
	"astrapix-server/internal/repository"

	"go.uber.org/zap"
)

// List 按生成时间倒序返回用户的图片。
func (s *ImageService) List(ctx context.Context, userID uint) ([]model.Image, error) {
	images, err := s.imageStore.ListByUserID(ctx, userID)
	if err != nil {
		return nil, common.NewInternalError("failed to load gallery", err)
	}
	return images, nil
}

// Delete 删除用户自己的图片记录，并尽力删除远端对象。
func (s *ImageService) Delete(ctx context.Context, userID, imageID uint) error {
	image, err := s.imageStore.FindByID(ctx, imageID)
	if err != nil {
		if repository.IsNotFound(err) {
			return common.NewNotFoundError("image not found")
		}
		return common.NewInternalError("failed to delete image", err)
	}
	if image.UserID != userID {
		return common.NewForbiddenError("you can only delete your own images")
	}

	deleted, err := s.imageStore.DeleteOwned(ctx, imageID, userID)
	if err != nil {
		return common.NewInternalError("failed to delete image", err)
	}
	if !deleted {
		return common.NewNotFoundError("image not found")
	}

	s.RemoveObject(ctx, image.StorageKey)
	return nil
}

// RemoveObject 尽力删除存储对象，失败只记录日志。
func (s *ImageService) RemoveObject(ctx context.Context, key string) {
	if key == "" || s.objectStore == nil {
		return
	}
	if err := s.objectStore.Delete(ctx, key); err != nil {
		logger.L().Warn("⚠️ 删除存储对象失败", zap.String("key", key), zap.Error(err))
	}
}
