package utils

import (
	"errors"
	"fmt"
	"time"

	"astrapix-server/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer    = "astrapix-server"
	loginTokenType = "login"
)

var ErrInvalidToken = errors.New("invalid token")

// LoginClaims 登录令牌携带的用户身份
type LoginClaims struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

func getSecret() []byte {
	return []byte(config.Get().JWT.Secret)
}

// GenerateLoginToken 签发 HS256 登录令牌。
func GenerateLoginToken(id uint, email, username string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := LoginClaims{
		ID:       id,
		Email:    email,
		Username: username,
		Type:     loginTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			Issuer:    tokenIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getSecret())
}

func ParseLoginToken(tokenString string) (*LoginClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &LoginClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getSecret(), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*LoginClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != loginTokenType {
		return nil, errors.New("invalid token type")
	}
	return claims, nil
}
