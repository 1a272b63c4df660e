// Package otp 提供一次性验证码登记簿：签发时覆盖旧码，校验成功或过期即删除。
package otp

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("otp not found")
	ErrExpired  = errors.New("otp expired")
	ErrMismatch = errors.New("otp mismatch")
)

// Entry 是登记簿中的一条验证码。
type Entry struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store 是验证码存储。Consume 必须是原子的"校验并消费"：
// 同一条目只会有一个调用方成功。
type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	Set(ctx context.Context, key string, entry Entry) error
	Delete(ctx context.Context, key string) error
	Consume(ctx context.Context, key, code string, now time.Time) error
}

// check 判定一次校验的结果；返回 nil 表示应当消费该条目。
func check(entry Entry, code string, now time.Time) error {
	if now.After(entry.ExpiresAt) {
		return ErrExpired
	}
	if subtle.ConstantTimeCompare([]byte(entry.Code), []byte(code)) != 1 {
		return ErrMismatch
	}
	return nil
}
