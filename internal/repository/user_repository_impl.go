package repository

import (
	"context"

	"astrapix-server/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) CreateWithCredit(ctx context.Context, user *model.User, bonus int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}
		if bonus <= 0 {
			return nil
		}
		return tx.Create(&model.Credit{UserID: user.ID, Balance: bonus}).Error
	})
}

func (r *UserRepository) UpdateUsername(ctx context.Context, userID uint, username string) error {
	return r.updateColumns(ctx, userID, map[string]interface{}{"username": username})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uint, hashedPassword string) error {
	return r.updateColumns(ctx, userID, map[string]interface{}{"password": hashedPassword})
}

func (r *UserRepository) LinkGoogle(ctx context.Context, userID uint, googleID, avatar string) error {
	updates := map[string]interface{}{"google_id": googleID, "is_verified": true}
	if avatar != "" {
		updates["avatar"] = avatar
	}
	return r.updateColumns(ctx, userID, updates)
}

func (r *UserRepository) updateColumns(ctx context.Context, userID uint, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
