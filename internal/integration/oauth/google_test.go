package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"astrapix-server/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, userInfo string) *GoogleProvider {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(userInfo))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	p := NewGoogleProvider(config.GoogleConfig{ClientID: "cid", ClientSecret: "csecret", RedirectURL: "http://localhost/cb"})
	return p.WithEndpoints(srv.URL+"/auth", srv.URL+"/token", srv.URL+"/userinfo")
}

// 测试内容：验证授权码交换后读取用户资料。
func TestGoogleProvider_Exchange(t *testing.T) {
	p := newTestProvider(t, `{"id":"g-1","email":"a@example.com","name":"Alice","picture":"http://p/a.png","verified_email":true}`)

	profile, err := p.Exchange(context.Background(), "code-1")
	require.NoError(t, err)
	assert.Equal(t, "g-1", profile.ID)
	assert.Equal(t, "a@example.com", profile.Email)
	assert.Equal(t, "Alice", profile.Name)
	assert.True(t, profile.VerifiedEmail)
}

// 测试内容：验证用户资料缺少邮箱时返回 ErrProfile。
func TestGoogleProvider_ExchangeMissingEmail(t *testing.T) {
	p := newTestProvider(t, `{"id":"g-1"}`)

	_, err := p.Exchange(context.Background(), "code-1")
	assert.ErrorIs(t, err, ErrProfile)
}

// 测试内容：验证授权地址携带 state 与 client_id；未配置时不可用。
func TestGoogleProvider_AuthCodeURL(t *testing.T) {
	p := newTestProvider(t, `{}`)
	u, err := url.Parse(p.AuthCodeURL("state-xyz"))
	require.NoError(t, err)
	assert.Equal(t, "state-xyz", u.Query().Get("state"))
	assert.Equal(t, "cid", u.Query().Get("client_id"))
	assert.True(t, p.Enabled())

	disabled := NewGoogleProvider(config.GoogleConfig{})
	assert.False(t, disabled.Enabled())
	_, err = disabled.Exchange(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
