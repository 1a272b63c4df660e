package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrInsufficientBalance 条件扣减未命中：账本存在但余额不足。
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrPaymentExists 同一订单已入账。
	ErrPaymentExists = errors.New("payment already recorded")
	// ErrEmailTaken 邮箱已被注册。
	ErrEmailTaken = errors.New("email already registered")
)

// isUniqueViolation 兼容未实现错误翻译的驱动。
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate")
}
