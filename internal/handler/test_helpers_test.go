package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"astrapix-server/internal/consts"
	"astrapix-server/internal/integration/oauth"
	"astrapix-server/internal/middleware"
	"astrapix-server/internal/model"
	"astrapix-server/internal/otp"
	"astrapix-server/internal/repository"
	"astrapix-server/internal/service"
	"astrapix-server/internal/testutils"
	"astrapix-server/internal/usecase/app"
	"astrapix-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	repos     *repository.Repositories
	mailer    *testutils.FakeMailer
	generator *testutils.FakeGenerator
	objects   *testutils.FakeObjectStore
	gateway   *testutils.FakeGateway
	oauth     *testutils.FakeOAuth
	router    *gin.Engine
}

// setupEnv 组装真实的 service/usecase 与内存 SQLite，外部依赖使用 fake。
func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := testutils.SetupDB(t)
	repos := repository.NewRepositories(
		repository.NewUserRepository(gdb),
		repository.NewCreditRepository(gdb),
		repository.NewImageRepository(gdb),
		repository.NewPaymentRepository(gdb),
	)
	env := &testEnv{
		repos:     repos,
		mailer:    &testutils.FakeMailer{},
		generator: &testutils.FakeGenerator{},
		objects:   testutils.NewFakeObjectStore(),
		gateway:   testutils.NewFakeGateway(),
		oauth:     &testutils.FakeOAuth{Profile: &oauth.Profile{ID: "g-1", Email: "g.user@example.com", Name: "G User", VerifiedEmail: true}},
	}

	credits := service.NewCreditService(repos.Credit)
	imageService := service.NewImageService(repos.Image, env.objects)
	captcha := service.NewCaptchaService(nil)
	authUC := app.NewAuthUseCase(service.NewAuthService(repos.User), service.NewOTPService(otp.NewMemoryStore()), env.mailer, repos.User, env.oauth)

	authH := NewAuthHandler(authUC, captcha)
	userH := NewUserHandler(app.NewUserUseCase(repos.User, repos.Image, credits))
	imageH := NewImageHandler(app.NewImageUseCase(env.generator, env.objects, repos.Image, credits, imageService))
	payH := NewPaymentHandler(service.NewPaymentService(env.gateway, repos.Payment))
	captchaH := NewCaptchaHandler(captcha)

	r := gin.New()
	r.GET("/api/ping", Ping)
	r.GET("/api/captcha", captchaH.GetCaptcha)
	r.POST("/api/login", authH.Login)
	r.POST("/api/send-otp", authH.SendOTP)
	r.POST("/api/resend-otp", authH.ResendOTP)
	r.POST("/api/verify-otp", authH.VerifyOTP)
	r.POST("/api/signup", authH.Signup)
	r.POST("/api/forgot-password", authH.ForgotPassword)
	r.POST("/api/auth/verify-otp", authH.ResetPassword)
	r.GET("/auth/google", authH.GoogleLogin)
	r.GET("/auth/google/callback", authH.GoogleCallback)

	authed := r.Group("/", middleware.JWTAuth())
	authed.GET("/check/credits/:email", userH.GetCredits)
	authed.POST("/generate/generate", imageH.Generate)
	authed.GET("/generate/gallery", imageH.Gallery)
	authed.DELETE("/generate/:id", imageH.Delete)
	authed.GET("/api/user/profile", userH.GetProfile)
	authed.PATCH("/api/user/username", userH.UpdateUsername)
	authed.GET("/api/payment/plans", payH.Plans)
	authed.POST("/api/payment/create-order", payH.CreateOrder)
	authed.POST("/api/payment/verify-payment", payH.VerifyPayment)
	authed.GET("/api/payment/history", payH.History)

	env.router = r
	return env
}

// mustUser 创建已验证的本地用户并返回其登录令牌。
func (e *testEnv) mustUser(t *testing.T, name string, bonus int64) (*model.User, string) {
	t.Helper()
	hashed, err := service.HashPassword("password123")
	require.NoError(t, err)
	u := &model.User{
		Email:      fmt.Sprintf("%s@example.com", name),
		Username:   name,
		Password:   hashed,
		Provider:   consts.ProviderLocal,
		IsVerified: true,
	}
	require.NoError(t, e.repos.User.CreateWithCredit(context.Background(), u, bonus))
	token, err := utils.GenerateLoginToken(u.ID, u.Email, u.Username, time.Hour)
	require.NoError(t, err)
	return u, token
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

