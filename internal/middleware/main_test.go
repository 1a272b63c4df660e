package middleware

import (
	"os"
	"testing"

	"astrapix-server/internal/config"
	"astrapix-server/internal/testutils"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.Set(testutils.DefaultConfig())
	os.Exit(m.Run())
}

// withRateLimit 在当前测试内启用限流并设置参数。
func withRateLimit(t *testing.T, rl config.RateLimitConfig) {
	t.Helper()
	cfg := testutils.DefaultConfig()
	rl.Enabled = true
	cfg.RateLimit = rl
	t.Cleanup(testutils.UseConfig(cfg))
}
