package repository

import (
	"context"
	"fmt"
	"testing"

	"astrapix-server/internal/consts"
	"astrapix-server/internal/model"
	"astrapix-server/internal/testutils"

	"gorm.io/gorm"
)

type testRepos struct {
	db      *gorm.DB
	users   UserStore
	credits CreditStore
	images  ImageStore
	pays    PaymentStore
}

func setupRepos(t *testing.T) *testRepos {
	t.Helper()
	return newTestRepos(testutils.SetupDB(t))
}

// setupConcurrentRepos 使用多连接的文件数据库，事务之间真正并发。
func setupConcurrentRepos(t *testing.T) *testRepos {
	t.Helper()
	return newTestRepos(testutils.SetupFileDB(t))
}

func newTestRepos(gdb *gorm.DB) *testRepos {
	return &testRepos{
		db:      gdb,
		users:   NewUserRepository(gdb),
		credits: NewCreditRepository(gdb),
		images:  NewImageRepository(gdb),
		pays:    NewPaymentRepository(gdb),
	}
}

func (r *testRepos) mustUser(t *testing.T, name string, bonus int64) *model.User {
	t.Helper()
	u := &model.User{
		Email:      fmt.Sprintf("%s@example.com", name),
		Username:   name,
		Password:   "x",
		Provider:   consts.ProviderLocal,
		IsVerified: true,
	}
	if err := r.users.CreateWithCredit(context.Background(), u, bonus); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return u
}
