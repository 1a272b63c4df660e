package service

import (
	"os"
	"testing"

	"astrapix-server/internal/config"
	"astrapix-server/internal/testutils"
)

// 测试内容：为 service 包测试安装统一配置。
func TestMain(m *testing.M) {
	config.Set(testutils.DefaultConfig())
	os.Exit(m.Run())
}
