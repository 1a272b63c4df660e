package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxPasswordBytes = 72

var (
	usernamePattern  = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	digitsPattern    = regexp.MustCompile(`^[0-9]+$`)
	passwordCharset  = regexp.MustCompile(`^[a-zA-Z0-9[:punct:]]+$`)
	hasLetterPattern = regexp.MustCompile(`[a-zA-Z]`)
	hasDigitPattern  = regexp.MustCompile(`[0-9]`)
	emailPattern     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateUsername checks if the username meets the requirements.
func ValidateUsername(username string) (bool, string) {
	n := utf8.RuneCountInString(username)
	if n < 4 || n > 20 {
		return false, "username must be 4-20 characters"
	}
	if !usernamePattern.MatchString(username) {
		return false, "username may only contain letters, digits and underscores"
	}
	if digitsPattern.MatchString(username) {
		return false, "username cannot be all digits"
	}
	return true, ""
}

// ValidatePassword checks if the password meets the requirements.
// Returns true if valid, otherwise false and an error message.
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "password must be at least 8 characters"
	}
	// bcrypt 只接受 72 字节以内的输入
	if len(password) > maxPasswordBytes {
		return false, "password must be at most 72 characters"
	}
	if !passwordCharset.MatchString(password) {
		return false, "password may only contain letters, digits and symbols"
	}
	if !hasLetterPattern.MatchString(password) || !hasDigitPattern.MatchString(password) {
		return false, "password must contain at least one letter and one digit"
	}
	return true, ""
}

func ValidateEmail(email string) (bool, string) {
	if email == "" || len(email) > 255 {
		return false, "invalid email address"
	}
	if _, err := mail.ParseAddress(email); err != nil || !emailPattern.MatchString(email) {
		return false, "invalid email address"
	}
	return true, ""
}

// NormalizeEmail 统一邮箱大小写与首尾空白，邮箱唯一性依赖此规范化。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GenerateNumericCode 使用 crypto/rand 生成定长数字验证码（允许前导 0）。
func GenerateNumericCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid code length %d", length)
	}
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", length, n), nil
}

// DetectImageType 根据内容嗅探图片类型，返回 MIME 与扩展名。
func DetectImageType(data []byte) (string, string, bool) {
	contentType := http.DetectContentType(data)
	switch contentType {
	case "image/png":
		return contentType, ".png", true
	case "image/jpeg":
		return contentType, ".jpg", true
	case "image/webp":
		return contentType, ".webp", true
	case "image/gif":
		return contentType, ".gif", true
	default:
		return contentType, "", false
	}
}
