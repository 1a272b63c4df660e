package app

import (
	"context"
	"strings"

	"astrapix-server/internal/common"
	"astrapix-server/internal/model"
	"astrapix-server/internal/repository"
	"astrapix-server/internal/utils"
)

// Profile 个人资料与账户概况。
type Profile struct {
	User       *model.User `json:"user"`
	Balance    int64       `json:"balance"`
	ImageCount int64       `json:"image_count"`
}

// GetProfile 返回用户资料、积分余额与作品数量。
func (c *UserUseCase) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := c.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	balance, err := c.creditService.Get(ctx, userID)
	if err != nil {
		if !common.IsCode(err, common.ErrorCodeNotFound) {
			return nil, err
		}
		balance = 0
	}

	count, err := c.imageStore.CountByUserID(ctx, userID)
	if err != nil {
		return nil, common.NewInternalError("failed to load profile", err)
	}
	return &Profile{User: user, Balance: balance, ImageCount: count}, nil
}

// UpdateUsername 修改用户名。
func (c *UserUseCase) UpdateUsername(ctx context.Context, userID uint, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if ok, msg := utils.ValidateUsername(username); !ok {
		return nil, common.NewValidationError(msg)
	}
	if err := c.userStore.UpdateUsername(ctx, userID, username); err != nil {
		if repository.IsNotFound(err) {
			return nil, common.NewNotFoundError("user not found")
		}
		return nil, common.NewInternalError("failed to update username", err)
	}
	return c.findUser(ctx, userID)
}

// GetCreditsByEmail 查询积分，只允许查询调用者自己的邮箱。
func (c *UserUseCase) GetCreditsByEmail(ctx context.Context, callerID uint, email string) (int64, error) {
	email = utils.NormalizeEmail(email)
	user, err := c.userStore.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return 0, common.NewNotFoundError("user not found")
		}
		return 0, common.NewInternalError("failed to read balance", err)
	}
	if user.ID != callerID {
		return 0, common.NewForbiddenError("you can only view your own credits")
	}
	return c.creditService.Get(ctx, user.ID)
}

func (c *UserUseCase) findUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := c.userStore.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.NewNotFoundError("user not found")
		}
		return nil, common.NewInternalError("failed to load user", err)
	}
	return user, nil
}
