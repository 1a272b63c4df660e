package repository

import (
	"context"

	"astrapix-server/internal/model"

	"gorm.io/gorm"
)

type ImageRepository struct {
	db *gorm.DB
}

func (r *ImageRepository) CreateCharged(ctx context.Context, image *model.Image, cost int64) (int64, error) {
	var balance int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deductCredit(tx, image.UserID, cost); err != nil {
			return err
		}
		if err := tx.Create(image).Error; err != nil {
			return err
		}
		var err error
		balance, err = readBalance(tx, image.UserID)
		return err
	})
	return balance, err
}

func (r *ImageRepository) ListByUserID(ctx context.Context, userID uint) ([]model.Image, error) {
	var images []model.Image
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("generated_at desc, id desc").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (r *ImageRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Image{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ImageRepository) FindByID(ctx context.Context, id uint) (*model.Image, error) {
	var image model.Image
	if err := r.db.WithContext(ctx).First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *ImageRepository) DeleteOwned(ctx context.Context, imageID, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", imageID, userID).Delete(&model.Image{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
