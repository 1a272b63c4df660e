package app

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"astrapix-server/internal/common"
	"astrapix-server/internal/config"
	"astrapix-server/internal/consts"
	"astrapix-server/internal/logger"
	"astrapix-server/internal/metrics"
	"astrapix-server/internal/model"
	"astrapix-server/internal/repository"
	"astrapix-server/internal/service"
	"astrapix-server/internal/utils"

	"go.uber.org/zap"
)

// LoginResult 登录或注册成功后的令牌与用户信息。
type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Login 邮箱密码登录。
func (c *AuthUseCase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := c.authService.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return c.issue(user)
}

// SendOTP 向未注册邮箱发送注册验证码；重复调用会覆盖旧验证码。
func (c *AuthUseCase) SendOTP(ctx context.Context, email string) error {
	email = utils.NormalizeEmail(email)
	if ok, msg := utils.ValidateEmail(email); !ok {
		return common.NewValidationError(msg)
	}

	exists, err := c.userStore.EmailExists(ctx, email)
	if err != nil {
		return common.NewInternalError("failed to send verification code", err)
	}
	if exists {
		return common.NewConflictError("email is already registered")
	}

	code, err := c.otpService.Issue(ctx, consts.OTPPurposeRegister, email)
	if err != nil {
		return err
	}
	if err := c.mailer.SendOTPEmail(ctx, email, code); err != nil {
		// 邮件未送达则撤销，避免留下无人知晓的验证码
		c.otpService.Revoke(ctx, consts.OTPPurposeRegister, email)
		return common.NewUpstreamError("failed to send verification email", err)
	}
	return nil
}

// ResendOTP 重新发送注册验证码。
func (c *AuthUseCase) ResendOTP(ctx context.Context, email string) error {
	return c.SendOTP(ctx, email)
}

// VerifyOTP 校验注册验证码，成功后记录邮箱已验证标记。
func (c *AuthUseCase) VerifyOTP(ctx context.Context, email, code string) error {
	email = utils.NormalizeEmail(email)
	if err := c.otpService.Verify(ctx, consts.OTPPurposeRegister, email, strings.TrimSpace(code)); err != nil {
		return err
	}
	return c.otpService.MarkVerified(ctx, email)
}

// Signup 创建已验证邮箱的本地账号并赠送初始积分。
func (c *AuthUseCase) Signup(ctx context.Context, username, email, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	email = utils.NormalizeEmail(email)

	if ok, msg := utils.ValidateUsername(username); !ok {
		return nil, common.NewValidationError(msg)
	}
	if ok, msg := utils.ValidateEmail(email); !ok {
		return nil, common.NewValidationError(msg)
	}
	if ok, msg := utils.ValidatePassword(password); !ok {
		return nil, common.NewValidationError(msg)
	}

	exists, err := c.userStore.EmailExists(ctx, email)
	if err != nil {
		return nil, common.NewInternalError("registration failed, please try again later", err)
	}
	if exists {
		return nil, common.NewConflictError("email is already registered")
	}

	hashed, err := service.HashPassword(password)
	if err != nil {
		return nil, err
	}

	if err := c.otpService.ConsumeVerified(ctx, email); err != nil {
		return nil, err
	}

	user := &model.User{
		Email:      email,
		Username:   username,
		Password:   hashed,
		Provider:   consts.ProviderLocal,
		IsVerified: true,
	}
	if err := c.createUser(ctx, user); err != nil {
		// 建号失败时归还验证标记，用户无需重新收取验证码
		if restoreErr := c.otpService.MarkVerified(ctx, email); restoreErr != nil {
			logger.L().Warn("⚠️ 归还邮箱验证标记失败", zap.Error(restoreErr))
		}
		return nil, err
	}
	return c.issue(user)
}

// ForgotPassword 向已注册邮箱发送重置验证码。邮箱不存在时同样返回成功。
func (c *AuthUseCase) ForgotPassword(ctx context.Context, email string) error {
	email = utils.NormalizeEmail(email)
	if ok, msg := utils.ValidateEmail(email); !ok {
		return common.NewValidationError(msg)
	}

	user, err := c.userStore.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil
		}
		return common.NewInternalError("failed to process request", err)
	}

	code, err := c.otpService.Issue(ctx, consts.OTPPurposeReset, email)
	if err != nil {
		return err
	}
	if err := c.mailer.SendPasswordResetEmail(ctx, email, user.Username, code); err != nil {
		c.otpService.Revoke(ctx, consts.OTPPurposeReset, email)
		return common.NewUpstreamError("failed to send reset email", err)
	}
	return nil
}

// ResetPassword 校验重置验证码并更新密码。
func (c *AuthUseCase) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = utils.NormalizeEmail(email)
	if ok, msg := utils.ValidatePassword(newPassword); !ok {
		return common.NewValidationError(msg)
	}

	if err := c.otpService.Verify(ctx, consts.OTPPurposeReset, email, strings.TrimSpace(code)); err != nil {
		return err
	}

	user, err := c.userStore.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return common.NewNotFoundError("account not found")
		}
		return common.NewInternalError("failed to reset password", err)
	}

	hashed, err := service.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := c.userStore.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return common.NewInternalError("failed to reset password", err)
	}
	return nil
}

// GoogleAuthURL 返回 Google 授权地址；未配置时返回 false。
func (c *AuthUseCase) GoogleAuthURL(state string) (string, bool) {
	if c.oauth == nil || !c.oauth.Enabled() {
		return "", false
	}
	return c.oauth.AuthCodeURL(state), true
}

// GoogleLogin 交换授权码，按邮箱关联已有账号或创建新账号。
func (c *AuthUseCase) GoogleLogin(ctx context.Context, code string) (*LoginResult, error) {
	if c.oauth == nil || !c.oauth.Enabled() {
		return nil, common.NewNotFoundError("google sign-in is not enabled")
	}
	profile, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, common.NewUpstreamError("google sign-in failed", err)
	}
	// 未经 Google 验证的邮箱不能用于登录或关联已有账号
	if !profile.VerifiedEmail {
		return nil, common.NewForbiddenError("your Google email address is not verified")
	}

	email := utils.NormalizeEmail(profile.Email)
	user, err := c.userStore.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if user.GoogleID == "" || !user.IsVerified {
			if err := c.userStore.LinkGoogle(ctx, user.ID, profile.ID, profile.Picture); err != nil {
				return nil, common.NewInternalError("google sign-in failed", err)
			}
			user.GoogleID = profile.ID
			user.IsVerified = true
		}
		return c.issue(user)
	case repository.IsNotFound(err):
	default:
		return nil, common.NewInternalError("google sign-in failed", err)
	}

	user = &model.User{
		Email:      email,
		Username:   usernameFromProfile(profile.Name, email),
		Provider:   consts.ProviderGoogle,
		GoogleID:   profile.ID,
		Avatar:     profile.Picture,
		IsVerified: true,
	}
	if err := c.createUser(ctx, user); err != nil {
		return nil, err
	}
	return c.issue(user)
}

func (c *AuthUseCase) createUser(ctx context.Context, user *model.User) error {
	bonus := config.Get().Credits.SignupBonus
	if err := c.userStore.CreateWithCredit(ctx, user, bonus); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return common.NewConflictError("email is already registered")
		}
		return common.NewInternalError("registration failed, please try again later", err)
	}
	if bonus > 0 {
		metrics.CreditsGranted.WithLabelValues("signup").Add(float64(bonus))
	}
	logger.L().Info("👤 新用户注册", zap.Uint("user_id", user.ID), zap.String("provider", string(user.Provider)))
	return nil
}

func (c *AuthUseCase) issue(user *model.User) (*LoginResult, error) {
	token, err := c.authService.IssueLoginToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

// usernameFromProfile 从 Google 昵称或邮箱前缀派生合法用户名。
func usernameFromProfile(name, email string) string {
	build := func(s string) string {
		var b strings.Builder
		for _, r := range s {
			if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
				b.WriteRune(r)
			}
		}
		return b.String()
	}

	candidate := build(strings.ReplaceAll(name, " ", "_"))
	if ok, _ := utils.ValidateUsername(candidate); ok {
		return candidate
	}
	local := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		local = email[:i]
	}
	candidate = build(local)
	if len(candidate) > 20 {
		candidate = candidate[:20]
	}
	for len(candidate) < 4 {
		candidate += "_"
	}
	if ok, _ := utils.ValidateUsername(candidate); ok {
		return candidate
	}
	return "user_" + candidate[:min(len(candidate), 15)]
}
