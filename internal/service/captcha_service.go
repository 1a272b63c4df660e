package service

import (
	"context"
	"strings"
	"time"

	"astrapix-server/internal/config"

	"github.com/mojocn/base64Captcha"
	"github.com/redis/go-redis/v9"
)

const captchaTTL = 5 * time.Minute

// CaptchaChallenge 图形验证码。
type CaptchaChallenge struct {
	ID    string `json:"captcha_id"`
	Image string `json:"captcha_image"`
}

func NewCaptchaService(client *redis.Client) *CaptchaService {
	if client != nil {
		return &CaptchaService{store: &redisCaptchaStore{client: client}}
	}
	return &CaptchaService{store: base64Captcha.NewMemoryStore(base64Captcha.GCLimitNumber, captchaTTL)}
}

// Enabled 是否要求登录等接口校验验证码。
func (s *CaptchaService) Enabled() bool {
	return config.Get().Captcha.Enabled
}

// Generate 生成数字验证码。
func (s *CaptchaService) Generate() (*CaptchaChallenge, error) {
	// height: 80, width: 240, length: 5, maxSkew: 0.7, dotCount: 80
	driver := base64Captcha.NewDriverDigit(80, 240, 5, 0.7, 80)
	id, b64s, _, err := base64Captcha.NewCaptcha(driver, s.store).Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaChallenge{ID: id, Image: b64s}, nil
}

// Verify 校验并作废验证码。未启用时直接放行。
func (s *CaptchaService) Verify(id, answer string) bool {
	if !s.Enabled() {
		return true
	}
	id = strings.TrimSpace(id)
	answer = strings.TrimSpace(answer)
	if id == "" || answer == "" {
		return false
	}
	return s.store.Verify(id, answer, true)
}

// redisCaptchaStore 让多实例部署共享验证码答案。
type redisCaptchaStore struct {
	client *redis.Client
}

func (s *redisCaptchaStore) Set(id string, value string) error {
	return s.client.Set(context.Background(), RedisKey("captcha", id), value, captchaTTL).Err()
}

func (s *redisCaptchaStore) Get(id string, clear bool) string {
	ctx := context.Background()
	key := RedisKey("captcha", id)
	var (
		v   string
		err error
	)
	if clear {
		v, err = s.client.GetDel(ctx, key).Result()
	} else {
		v, err = s.client.Get(ctx, key).Result()
	}
	if err != nil {
		return ""
	}
	return v
}

func (s *redisCaptchaStore) Verify(id, answer string, clear bool) bool {
	v := s.Get(id, clear)
	return v != "" && strings.EqualFold(v, answer)
}
