package otp

import (
	"context"
	"time"

	"astrapix-server/internal/consts"
	"astrapix-server/internal/utils"
)

// Register 面向业务的验证码登记簿，按 purpose + email 区分条目。
type Register struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func NewRegister(store Store, ttl time.Duration) *Register {
	if ttl <= 0 {
		ttl = consts.DefaultOTPTTL
	}
	return &Register{store: store, ttl: ttl, now: time.Now}
}

// WithClock 替换时钟，用于测试。
func (r *Register) WithClock(now func() time.Time) *Register {
	r.now = now
	return r
}

func entryKey(purpose consts.OTPPurpose, email string) string {
	return string(purpose) + ":" + email
}

// Issue 生成 6 位随机数字验证码并覆盖该邮箱此前的条目。
func (r *Register) Issue(ctx context.Context, purpose consts.OTPPurpose, email string) (string, error) {
	code, err := utils.GenerateNumericCode(consts.OTPLength)
	if err != nil {
		return "", err
	}
	if err := r.Put(ctx, purpose, email, code, r.ttl); err != nil {
		return "", err
	}
	return code, nil
}

// Put 以指定值与有效期写入条目。
func (r *Register) Put(ctx context.Context, purpose consts.OTPPurpose, email, code string, ttl time.Duration) error {
	return r.store.Set(ctx, entryKey(purpose, email), Entry{Code: code, ExpiresAt: r.now().Add(ttl)})
}

// Verify 校验并消费：不存在 ErrNotFound，过期 ErrExpired（并删除），不匹配 ErrMismatch（保留）。
func (r *Register) Verify(ctx context.Context, purpose consts.OTPPurpose, email, code string) error {
	return r.store.Consume(ctx, entryKey(purpose, email), code, r.now())
}

// Revoke 删除条目。
func (r *Register) Revoke(ctx context.Context, purpose consts.OTPPurpose, email string) error {
	return r.store.Delete(ctx, entryKey(purpose, email))
}
