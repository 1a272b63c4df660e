package service

import (
	"context"
	"testing"

	"astrapix-server/internal/common"
	"astrapix-server/internal/consts"
	"astrapix-server/internal/model"
	"astrapix-server/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试内容：验证邮箱密码登录成功并签发可解析的令牌。
func TestAuthService_AuthenticateAndIssue(t *testing.T) {
	repos := setupRepos(t)
	svc := NewAuthService(repos.User)
	u := mustUser(t, repos, "alice", 0)

	got, err := svc.Authenticate(context.Background(), "  ALICE@example.com ", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	token, err := svc.IssueLoginToken(got)
	require.NoError(t, err)
	claims, err := utils.ParseLoginToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.ID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

// 测试内容：验证错误密码与不存在的账号返回相同的 Unauthorized。
func TestAuthService_AuthenticateFailures(t *testing.T) {
	repos := setupRepos(t)
	svc := NewAuthService(repos.User)
	mustUser(t, repos, "alice", 0)

	_, err := svc.Authenticate(context.Background(), "alice@example.com", "wrong-pass1")
	assert.True(t, common.IsCode(err, common.ErrorCodeUnauthorized))

	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "password123")
	assert.True(t, common.IsCode(err, common.ErrorCodeUnauthorized))
}

// 测试内容：验证未验证邮箱的本地账号不能登录，Google 账号不能用密码登录。
func TestAuthService_AuthenticateRestrictions(t *testing.T) {
	repos := setupRepos(t)
	svc := NewAuthService(repos.User)
	ctx := context.Background()

	hashed, err := HashPassword("password123")
	require.NoError(t, err)
	require.NoError(t, repos.User.CreateWithCredit(ctx, &model.User{
		Email: "pending@example.com", Username: "pending", Password: hashed, Provider: consts.ProviderLocal,
	}, 0))
	require.NoError(t, repos.User.CreateWithCredit(ctx, &model.User{
		Email: "g@example.com", Username: "guser", Provider: consts.ProviderGoogle, IsVerified: true,
	}, 0))

	_, err = svc.Authenticate(ctx, "pending@example.com", "password123")
	assert.True(t, common.IsCode(err, common.ErrorCodeForbidden))

	_, err = svc.Authenticate(ctx, "g@example.com", "")
	assert.True(t, common.IsCode(err, common.ErrorCodeUnauthorized))
}
