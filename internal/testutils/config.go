package testutils

import (
	"astrapix-server/internal/config"
)

// DefaultConfig 返回测试通用配置：固定 JWT secret、关闭 redis 与限流。
func DefaultConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{Port: "8080", Mode: "test", FrontendURL: "http://frontend.test", MaxBodyBytes: 1 << 20},
		JWT:    config.JWTConfig{Secret: "test_secret", ExpirationHours: 24},
		Redis:  config.RedisConfig{Enabled: false, Prefix: "astrapix_test"},
		OTP:    config.OTPConfig{TTLMinutes: 10, VerifiedMarkerMinutes: 30},
		Payment: config.PaymentConfig{
			KeyID:     "rzp_test_key",
			KeySecret: "rzp_test_secret",
			Currency:  "INR",
			Plans: []config.Plan{
				{ID: "basic", Name: "Basic", AmountMinor: 10000, Credits: 100},
				{ID: "advanced", Name: "Advanced", AmountMinor: 50000, Credits: 500},
			},
		},
		RateLimit: config.RateLimitConfig{Enabled: false},
		Credits:   config.CreditsConfig{SignupBonus: 10},
	}
}

// UseConfig 安装配置并返回恢复函数。
func UseConfig(cfg config.Config) func() {
	prev := config.Get()
	config.Set(cfg)
	return func() { config.Set(prev) }
}
