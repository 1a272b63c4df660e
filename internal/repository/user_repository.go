package repository

import (
	"context"

	"astrapix-server/internal/model"
)

type UserStore interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// CreateWithCredit 在同一事务中创建用户与初始积分账本（bonus 为 0 时不建账本）。
	CreateWithCredit(ctx context.Context, user *model.User, bonus int64) error
	UpdateUsername(ctx context.Context, userID uint, username string) error
	UpdatePassword(ctx context.Context, userID uint, hashedPassword string) error
	LinkGoogle(ctx context.Context, userID uint, googleID, avatar string) error
}
