package repository

import (
	"context"

	"astrapix-server/internal/model"
)

type ImageStore interface {
	// CreateCharged 在同一事务中扣减积分并写入图片记录；余额不足时返回 ErrInsufficientBalance 且不写入。
	CreateCharged(ctx context.Context, image *model.Image, cost int64) (int64, error)
	ListByUserID(ctx context.Context, userID uint) ([]model.Image, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
	FindByID(ctx context.Context, id uint) (*model.Image, error)
	// DeleteOwned 仅删除属于 userID 的记录，返回是否删除成功。
	DeleteOwned(ctx context.Context, imageID, userID uint) (bool, error)
}
