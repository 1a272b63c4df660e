package service

import (
	"strings"
	"testing"

	"astrapix-server/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试内容：验证未启用验证码时直接放行。
func TestCaptchaService_DisabledPasses(t *testing.T) {
	svc := NewCaptchaService(nil)
	assert.False(t, svc.Enabled())
	assert.True(t, svc.Verify("", ""))
}

// 测试内容：验证生成图片验证码，答案只能使用一次。
func TestCaptchaService_GenerateVerify(t *testing.T) {
	cfg := testutils.DefaultConfig()
	cfg.Captcha.Enabled = true
	defer testutils.UseConfig(cfg)()

	svc := NewCaptchaService(nil)
	challenge, err := svc.Generate()
	require.NoError(t, err)
	assert.NotEmpty(t, challenge.ID)
	assert.True(t, strings.HasPrefix(challenge.Image, "data:image/png;base64,"))

	answer := svc.store.Get(challenge.ID, false)
	require.NotEmpty(t, answer)

	assert.False(t, svc.Verify(challenge.ID, "wrong"))
	// 校验失败同样作废
	assert.False(t, svc.Verify(challenge.ID, answer))

	challenge, err = svc.Generate()
	require.NoError(t, err)
	answer = svc.store.Get(challenge.ID, false)
	assert.True(t, svc.Verify(challenge.ID, answer))
	assert.False(t, svc.Verify(challenge.ID, answer))
	assert.False(t, svc.Verify("", answer))
}
