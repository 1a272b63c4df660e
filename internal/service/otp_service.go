package service

import (
	"context"
	"errors"
	"time"

	"astrapix-server/internal/common"
	"astrapix-server/internal/config"
	"astrapix-server/internal/consts"
	"astrapix-server/internal/metrics"
	"astrapix-server/internal/otp"

	"github.com/redis/go-redis/v9"
)

// verifiedMarker 是"邮箱已验证"标记条目的固定值。
const verifiedMarker = "ok"

// NewOTPStore 启用 Redis 时使用 Redis 存储，否则使用进程内存储。
func NewOTPStore(client *redis.Client) otp.Store {
	if client != nil {
		return otp.NewRedisStore(client, RedisPrefix())
	}
	store := otp.NewMemoryStore()
	store.StartSweeper(context.Background(), time.Minute)
	return store
}

func NewOTPService(store otp.Store) *OTPService {
	ttl := time.Duration(config.Get().OTP.TTLMinutes) * time.Minute
	return &OTPService{register: otp.NewRegister(store, ttl)}
}

// Issue 签发验证码并覆盖该邮箱同用途的旧验证码。
func (s *OTPService) Issue(ctx context.Context, purpose consts.OTPPurpose, email string) (string, error) {
	code, err := s.register.Issue(ctx, purpose, email)
	if err != nil {
		metrics.OTPTotal.WithLabelValues(string(purpose), "issue", "error").Inc()
		return "", common.NewInternalError("failed to issue verification code", err)
	}
	metrics.OTPTotal.WithLabelValues(string(purpose), "issue", "success").Inc()
	return code, nil
}

// Verify 校验并消费验证码。
func (s *OTPService) Verify(ctx context.Context, purpose consts.OTPPurpose, email, code string) error {
	err := s.register.Verify(ctx, purpose, email, code)
	metrics.OTPTotal.WithLabelValues(string(purpose), "verify", otpResult(err)).Inc()

	switch {
	case err == nil:
		return nil
	case errors.Is(err, otp.ErrNotFound):
		return common.WrapServiceError(common.ErrorCodeValidation, "no pending verification code for this email", err)
	case errors.Is(err, otp.ErrExpired):
		return common.WrapServiceError(common.ErrorCodeValidation, "verification code has expired", err)
	case errors.Is(err, otp.ErrMismatch):
		return common.WrapServiceError(common.ErrorCodeValidation, "invalid verification code", err)
	default:
		return common.NewInternalError("failed to verify code", err)
	}
}

// Revoke 删除待校验的验证码，发信失败时调用。
func (s *OTPService) Revoke(ctx context.Context, purpose consts.OTPPurpose, email string) {
	_ = s.register.Revoke(ctx, purpose, email)
}

// MarkVerified 记录邮箱已通过注册验证，供随后的 signup 消费。
func (s *OTPService) MarkVerified(ctx context.Context, email string) error {
	minutes := config.Get().OTP.VerifiedMarkerMinutes
	if minutes <= 0 {
		minutes = 30
	}
	if err := s.register.Put(ctx, consts.OTPPurposeVerified, email, verifiedMarker, time.Duration(minutes)*time.Minute); err != nil {
		return common.NewInternalError("failed to record verification", err)
	}
	return nil
}

// ConsumeVerified 消费已验证标记；不存在或过期时返回 Forbidden。
func (s *OTPService) ConsumeVerified(ctx context.Context, email string) error {
	err := s.register.Verify(ctx, consts.OTPPurposeVerified, email, verifiedMarker)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, otp.ErrNotFound), errors.Is(err, otp.ErrExpired), errors.Is(err, otp.ErrMismatch):
		return common.WrapServiceError(common.ErrorCodeForbidden, "please verify your email first", ErrEmailNotVerified)
	default:
		return common.NewInternalError("failed to check verification", err)
	}
}

func otpResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, otp.ErrNotFound):
		return "not_found"
	case errors.Is(err, otp.ErrExpired):
		return "expired"
	case errors.Is(err, otp.ErrMismatch):
		return "mismatch"
	default:
		return "error"
	}
}
