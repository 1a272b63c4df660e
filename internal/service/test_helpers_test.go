package service

import (
	"context"
	"fmt"
	"testing"

	"astrapix-server/internal/consts"
	"astrapix-server/internal/model"
	"astrapix-server/internal/repository"
	"astrapix-server/internal/testutils"

	"gorm.io/gorm"
)

func setupRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	return newRepos(testutils.SetupDB(t))
}

func setupConcurrentRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	return newRepos(testutils.SetupFileDB(t))
}

func newRepos(gdb *gorm.DB) *repository.Repositories {
	return repository.NewRepositories(
		repository.NewUserRepository(gdb),
		repository.NewCreditRepository(gdb),
		repository.NewImageRepository(gdb),
		repository.NewPaymentRepository(gdb),
	)
}

func mustUser(t *testing.T, repos *repository.Repositories, name string, bonus int64) *model.User {
	t.Helper()
	hashed, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &model.User{
		Email:      fmt.Sprintf("%s@example.com", name),
		Username:   name,
		Password:   hashed,
		Provider:   consts.ProviderLocal,
		IsVerified: true,
	}
	if err := repos.User.CreateWithCredit(context.Background(), u, bonus); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return u
}
