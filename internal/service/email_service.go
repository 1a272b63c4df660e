package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"astrapix-server/internal/config"
	"astrapix-server/internal/consts"
	"astrapix-server/internal/logger"

	"go.uber.org/zap"
)

const otpMailTemplate = `<h2>{{.Site}}</h2>
<p>Your verification code is:</p>
<p style="font-size:24px;letter-spacing:4px"><strong>{{.Code}}</strong></p>
<p>The code expires in {{.Minutes}} minutes. If you did not request it, ignore this email.</p>`

const resetMailTemplate = `<h2>{{.Site}}</h2>
<p>Hi {{.Username}},</p>
<p>Use this code to reset your password:</p>
<p style="font-size:24px;letter-spacing:4px"><strong>{{.Code}}</strong></p>
<p>The code expires in {{.Minutes}} minutes.</p>`

// sendFunc 与 smtp.SendMail 签名一致，便于测试替换。
type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// SendOTPEmail 发送注册验证码。SMTP 未启用时仅记录日志。
func (s *EmailService) SendOTPEmail(_ context.Context, toEmail, code string) error {
	cfg := config.Get()
	body, err := renderTemplate(otpMailTemplate, map[string]any{
		"Site":    consts.ApplicationName,
		"Code":    code,
		"Minutes": otpMinutes(cfg),
	})
	if err != nil {
		return err
	}
	return s.deliver(cfg, toEmail, fmt.Sprintf("%s verification code", consts.ApplicationName), body)
}

// SendPasswordResetEmail 发送重置密码验证码。
func (s *EmailService) SendPasswordResetEmail(_ context.Context, toEmail, username, code string) error {
	cfg := config.Get()
	body, err := renderTemplate(resetMailTemplate, map[string]any{
		"Site":     consts.ApplicationName,
		"Username": username,
		"Code":     code,
		"Minutes":  otpMinutes(cfg),
	})
	if err != nil {
		return err
	}
	return s.deliver(cfg, toEmail, fmt.Sprintf("%s password reset", consts.ApplicationName), body)
}

func (s *EmailService) deliver(cfg config.Config, toEmail, subject, body string) error {
	if !cfg.SMTP.Enabled || cfg.SMTP.Host == "" {
		logger.L().Info("📧 SMTP 未启用，跳过发信", zap.String("subject", subject))
		return nil
	}

	fromHeader, fromAddr, err := parseAddressForHeader(cfg.SMTP.From)
	if err != nil {
		return err
	}
	toHeader, toAddr, err := parseAddressForHeader(toEmail)
	if err != nil {
		return err
	}
	msg, err := buildEmailMessage(fromHeader, toHeader, subject, body)
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Host)
	addr := fmt.Sprintf("%s:%d", cfg.SMTP.Host, cfg.SMTP.Port)

	// 如果配置了 SSL (通常是端口 465)，需要使用 tls 连接
	if cfg.SMTP.SSL {
		return sendMailWithSSL(cfg.SMTP.Host, addr, auth, fromAddr, []string{toAddr}, msg)
	}
	return s.send(addr, auth, fromAddr, []string{toAddr}, msg)
}

func otpMinutes(cfg config.Config) int {
	if cfg.OTP.TTLMinutes > 0 {
		return cfg.OTP.TTLMinutes
	}
	return int(consts.DefaultOTPTTL / time.Minute)
}

func renderTemplate(tpl string, data any) (string, error) {
	t, err := template.New("mail").Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func sendMailWithSSL(host, addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	log := logger.L()
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		log.Warn("[Email] TLS 连接失败", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		log.Warn("[Email] 创建 SMTP 客户端失败", zap.Error(err))
		return err
	}
	defer func() { _ = client.Close() }()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err = client.Auth(auth); err != nil {
				log.Warn("[Email] SMTP认证失败", zap.Error(err))
				return err
			}
		}
	}

	if err = client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		// 不记录具体邮箱地址
		if err = client.Rcpt(rcpt); err != nil {
			log.Warn("[Email] RCPT TO 命令失败", zap.Error(err))
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	if err = w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func parseAddressForHeader(input string) (string, string, error) {
	if err := rejectCRLF(input, "address"); err != nil {
		return "", "", err
	}
	addr, err := mail.ParseAddress(input)
	if err != nil {
		return "", "", err
	}
	headerValue := addr.String()
	if err := rejectCRLF(headerValue, "address"); err != nil {
		return "", "", err
	}
	return headerValue, addr.Address, nil
}

func buildEmailMessage(fromHeader, toHeader, subject, body string) ([]byte, error) {
	if err := rejectCRLF(subject, "subject"); err != nil {
		return nil, err
	}
	encodedSubject := mime.BEncoding.Encode("UTF-8", subject)
	dateStr := time.Now().Format(time.RFC1123Z)

	header := fmt.Sprintf("Date: %s\r\nFrom: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		dateStr, fromHeader, toHeader, encodedSubject)
	return []byte(header + body), nil
}

func rejectCRLF(value string, field string) error {
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("invalid %s header: CRLF not allowed", field)
	}
	return nil
}
