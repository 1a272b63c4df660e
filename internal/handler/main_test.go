package handler

import (
	"os"
	"testing"

	"astrapix-server/internal/config"
	"astrapix-server/internal/testutils"
	"astrapix-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// 测试内容：为 handler 包测试安装统一配置并注册自定义校验 tag。
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.Set(testutils.DefaultConfig())
	if err := utils.RegisterBindingValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}
