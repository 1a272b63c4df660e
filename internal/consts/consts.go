package consts

import "time"

const (
	// ApplicationName 应用名称
	ApplicationName = "AstraPix"
	// ApplicationVersion 后端版本
	ApplicationVersion = "1.0.0"
)

// AuthProvider 账号来源
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

// OTPPurpose 区分同一邮箱下不同用途的验证码
type OTPPurpose string

const (
	// OTPPurposeRegister 注册邮箱验证码
	OTPPurposeRegister OTPPurpose = "register"
	// OTPPurposeReset 重置密码验证码
	OTPPurposeReset OTPPurpose = "reset"
	// OTPPurposeVerified 注册验证码校验通过后的标记，供 signup 消费
	OTPPurposeVerified OTPPurpose = "verified"
)

const (
	// OTPLength 验证码位数
	OTPLength = 6
	// DefaultOTPTTL 验证码默认有效期
	DefaultOTPTTL = 10 * time.Minute
	// GenerationCost 每次生成消耗的积分
	GenerationCost int64 = 1
	// MaxPromptRunes 提示词最大长度
	MaxPromptRunes = 1000
)

// 上下文中存放的用户信息键
const (
	ContextUserID   = "id"
	ContextUsername = "username"
	ContextEmail    = "email"
)
