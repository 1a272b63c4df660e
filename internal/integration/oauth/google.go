// Package oauth 实现 Google 登录的授权码交换与用户信息获取。
package oauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"astrapix-server/internal/config"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var (
	ErrNotConfigured = errors.New("google oauth is not configured")
	ErrProfile       = errors.New("google profile unavailable")
)

// Profile Google 用户资料。
type Profile struct {
	ID            string
	Email         string
	Name          string
	Picture       string
	VerifiedEmail bool
}

// Provider 第三方登录提供方。
type Provider interface {
	Enabled() bool
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Profile, error)
}

type GoogleProvider struct {
	cfg         *oauth2.Config
	userInfoURL string
}

func NewGoogleProvider(cfg config.GoogleConfig) *GoogleProvider {
	return &GoogleProvider{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: defaultUserInfoURL,
	}
}

// WithEndpoints 替换授权、令牌与用户信息地址。
func (p *GoogleProvider) WithEndpoints(authURL, tokenURL, userInfoURL string) *GoogleProvider {
	p.cfg.Endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL}
	p.userInfoURL = userInfoURL
	return p
}

func (p *GoogleProvider) Enabled() bool {
	return p.cfg.ClientID != "" && p.cfg.ClientSecret != ""
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.SetAuthURLParam("prompt", "select_account"))
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	if !p.Enabled() {
		return nil, ErrNotConfigured
	}
	token, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.cfg.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfile, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfile, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProfile, resp.StatusCode)
	}

	res := gjson.ParseBytes(body)
	profile := &Profile{
		ID:            res.Get("id").String(),
		Email:         res.Get("email").String(),
		Name:          res.Get("name").String(),
		Picture:       res.Get("picture").String(),
		VerifiedEmail: res.Get("verified_email").Bool(),
	}
	if profile.ID == "" {
		profile.ID = res.Get("sub").String()
	}
	if !res.Get("verified_email").Exists() {
		profile.VerifiedEmail = res.Get("email_verified").Bool()
	}
	if profile.ID == "" || profile.Email == "" {
		return nil, fmt.Errorf("%w: missing id or email", ErrProfile)
	}
	return profile, nil
}
