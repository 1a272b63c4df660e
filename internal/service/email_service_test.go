package service

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"astrapix-server/internal/config"
	"astrapix-server/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试内容：验证邮件模板渲染能正确替换变量并转义 HTML。
func TestRenderTemplate(t *testing.T) {
	out, err := renderTemplate("hi {{.Name}}", map[string]string{"Name": "<b>alice</b>"})
	require.NoError(t, err)
	assert.Equal(t, "hi &lt;b&gt;alice&lt;/b&gt;", out)
}

// 测试内容：验证邮箱地址头格式化与 CRLF 注入拦截。
func TestParseAddressForHeader(t *testing.T) {
	header, addr, err := parseAddressForHeader("Alice <alice@example.com>")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", addr)
	assert.Contains(t, header, "<alice@example.com>")

	_, _, err = parseAddressForHeader("a@example.com\r\nBcc: x@example.com")
	assert.Error(t, err)
	_, _, err = parseAddressForHeader("not-an-email")
	assert.Error(t, err)
}

// 测试内容：验证邮件消息包含必要头部与正文。
func TestBuildEmailMessage(t *testing.T) {
	msg, err := buildEmailMessage("from@example.com", "to@example.com", "Code", "<p>hi</p>")
	require.NoError(t, err)
	s := string(msg)
	assert.Contains(t, s, "Subject:")
	assert.Contains(t, s, "MIME-Version: 1.0")
	assert.True(t, strings.HasSuffix(s, "<p>hi</p>"))

	_, err = buildEmailMessage("a", "b", "bad\nsubject", "")
	assert.Error(t, err)
}

// 测试内容：验证 SMTP 未启用时发信为 no-op。
func TestEmailService_DisabledNoop(t *testing.T) {
	svc := NewEmailService()
	called := false
	svc.send = func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}
	require.NoError(t, svc.SendOTPEmail(context.Background(), "a@example.com", "123456"))
	assert.False(t, called)
}

// 测试内容：验证启用 SMTP 时验证码写入邮件正文并投递到目标地址。
func TestEmailService_SendsOTP(t *testing.T) {
	cfg := testutils.DefaultConfig()
	cfg.SMTP = config.SMTPConfig{Enabled: true, Host: "smtp.test", Port: 587, From: "AstraPix <no-reply@astrapix.test>"}
	defer testutils.UseConfig(cfg)()

	svc := NewEmailService()
	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	svc.send = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, msg
		return nil
	}

	require.NoError(t, svc.SendOTPEmail(context.Background(), "a@example.com", "654321"))
	assert.Equal(t, "smtp.test:587", gotAddr)
	assert.Equal(t, []string{"a@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "654321")

	require.NoError(t, svc.SendPasswordResetEmail(context.Background(), "a@example.com", "alice", "111222"))
	assert.Contains(t, string(gotMsg), "alice")
	assert.Contains(t, string(gotMsg), "111222")
}
