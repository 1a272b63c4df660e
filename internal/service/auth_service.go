package service

import (
	"context"
	"time"

	"astrapix-server/internal/common"
	"astrapix-server/internal/config"
	"astrapix-server/internal/consts"
	"astrapix-server/internal/model"
	"astrapix-server/internal/repository"
	"astrapix-server/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// Authenticate 校验邮箱密码。账号不存在与密码错误返回相同信息。
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userStore.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.NewUnauthorizedError("invalid email or password")
		}
		return nil, common.NewInternalError("login failed, please try again later", err)
	}

	if !CheckPassword(user.Password, password) {
		if user.Provider == consts.ProviderGoogle && user.Password == "" {
			return nil, common.NewUnauthorizedError("this account uses Google sign-in")
		}
		return nil, common.NewUnauthorizedError("invalid email or password")
	}
	if !user.IsVerified {
		return nil, common.NewForbiddenError("please verify your email before logging in")
	}
	return user, nil
}

// IssueLoginToken 为用户签发 Bearer 令牌。
func (s *AuthService) IssueLoginToken(user *model.User) (string, error) {
	hours := config.Get().JWT.ExpirationHours
	if hours <= 0 {
		hours = 24
	}
	token, err := utils.GenerateLoginToken(user.ID, user.Email, user.Username, time.Duration(hours)*time.Hour)
	if err != nil {
		return "", common.NewInternalError("login failed, please try again later", err)
	}
	return token, nil
}

// HashPassword 使用 bcrypt 计算密码哈希。
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", common.NewInternalError("failed to hash password", err)
	}
	return string(hashed), nil
}

// CheckPassword 空哈希（Google 账号）永远不匹配。
func CheckPassword(hashed, password string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
