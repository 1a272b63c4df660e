package testutils

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"astrapix-server/internal/integration/gateway"
	"astrapix-server/internal/integration/oauth"
)

// PNGBytes 是一段能被识别为 image/png 的最小数据。
var PNGBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// FakeGateway 内存支付网关，记录创建过的订单。
type FakeGateway struct {
	mu        sync.Mutex
	seq       int
	Orders    map[string]*gateway.Order
	CreateErr error
	FetchErr  error
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{Orders: make(map[string]*gateway.Order)}
}

func (g *FakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string, notes map[string]string) (*gateway.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.CreateErr != nil {
		return nil, g.CreateErr
	}
	g.seq++
	copied := make(map[string]string, len(notes))
	for k, v := range notes {
		copied[k] = v
	}
	o := &gateway.Order{
		ID:       fmt.Sprintf("order_%d", g.seq),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
		Notes:    copied,
	}
	g.Orders[o.ID] = o
	return o, nil
}

func (g *FakeGateway) FetchOrder(_ context.Context, orderID string) (*gateway.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FetchErr != nil {
		return nil, g.FetchErr
	}
	o, ok := g.Orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: order %s not found", gateway.ErrGateway, orderID)
	}
	return o, nil
}

// FakeObjectStore 内存对象存储。
type FakeObjectStore struct {
	mu        sync.Mutex
	Objects   map[string][]byte
	Deleted   []string
	PutErr    error
	DeleteErr error
}

func NewFakeObjectStore() *FakeObjectStore {
	return &FakeObjectStore{Objects: make(map[string][]byte)}
}

func (s *FakeObjectStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PutErr != nil {
		return "", s.PutErr
	}
	s.Objects[key] = data
	return "https://cdn.test/" + key, nil
}

func (s *FakeObjectStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deleted = append(s.Deleted, key)
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	delete(s.Objects, key)
	return nil
}

func (s *FakeObjectStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Objects)
}

// FakeGenerator 返回固定图片或错误。
type FakeGenerator struct {
	mu      sync.Mutex
	Image   []byte
	Err     error
	Prompts []string
}

func (g *FakeGenerator) Generate(_ context.Context, prompt string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Prompts = append(g.Prompts, prompt)
	if g.Err != nil {
		return nil, g.Err
	}
	if g.Image == nil {
		return PNGBytes, nil
	}
	return g.Image, nil
}

// SentMail 记录一封发出的验证码邮件。
type SentMail struct {
	To   string
	Code string
	Kind string
}

// FakeMailer 记录发出的验证码邮件。
type FakeMailer struct {
	mu   sync.Mutex
	Sent []SentMail
	Err  error
}

func (m *FakeMailer) SendOTPEmail(_ context.Context, to, code string) error {
	return m.record(to, code, "otp")
}

func (m *FakeMailer) SendPasswordResetEmail(_ context.Context, to, _ string, code string) error {
	return m.record(to, code, "reset")
}

func (m *FakeMailer) record(to, code, kind string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, SentMail{To: to, Code: code, Kind: kind})
	return nil
}

// Last 返回最近一封邮件。
func (m *FakeMailer) Last() (SentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return SentMail{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}

// FakeOAuth 固定返回一个 Google 用户资料。
type FakeOAuth struct {
	Profile *oauth.Profile
	Err     error
}

func (f *FakeOAuth) Enabled() bool { return true }

func (f *FakeOAuth) AuthCodeURL(state string) string {
	return "https://accounts.test/auth?state=" + state
}

func (f *FakeOAuth) Exchange(_ context.Context, code string) (*oauth.Profile, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if code == "" || f.Profile == nil {
		return nil, errors.New("invalid code")
	}
	return f.Profile, nil
}
