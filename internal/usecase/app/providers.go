package app

import (
	"context"

	"astrapix-server/internal/integration/imagegen"
	"astrapix-server/internal/integration/oauth"
	"astrapix-server/internal/integration/storage"
	"astrapix-server/internal/repository"
	"astrapix-server/internal/service"
)

// Mailer 发送验证码邮件。
type Mailer interface {
	SendOTPEmail(ctx context.Context, to, code string) error
	SendPasswordResetEmail(ctx context.Context, to, username, code string) error
}

type AppUseCase struct {
	Auth  *AuthUseCase
	User  *UserUseCase
	Image *ImageUseCase
}

type AuthUseCase struct {
	authService *service.AuthService
	otpService  *service.OTPService
	mailer      Mailer
	userStore   repository.UserStore
	oauth       oauth.Provider
}

type UserUseCase struct {
	userStore     repository.UserStore
	imageStore    repository.ImageStore
	creditService *service.CreditService
}

type ImageUseCase struct {
	generator     imagegen.Generator
	objectStore   storage.ObjectStore
	imageStore    repository.ImageStore
	creditService *service.CreditService
	imageService  *service.ImageService
}

func NewAuthUseCase(
	authService *service.AuthService,
	otpService *service.OTPService,
	mailer Mailer,
	userStore repository.UserStore,
	provider oauth.Provider,
) *AuthUseCase {
	return &AuthUseCase{
		authService: authService,
		otpService:  otpService,
		mailer:      mailer,
		userStore:   userStore,
		oauth:       provider,
	}
}

func NewUserUseCase(
	userStore repository.UserStore,
	imageStore repository.ImageStore,
	creditService *service.CreditService,
) *UserUseCase {
	return &UserUseCase{
		userStore:     userStore,
		imageStore:    imageStore,
		creditService: creditService,
	}
}

func NewImageUseCase(
	generator imagegen.Generator,
	objectStore storage.ObjectStore,
	imageStore repository.ImageStore,
	creditService *service.CreditService,
	imageService *service.ImageService,
) *ImageUseCase {
	return &ImageUseCase{
		generator:     generator,
		objectStore:   objectStore,
		imageStore:    imageStore,
		creditService: creditService,
		imageService:  imageService,
	}
}

func NewAppUseCase(
	authUseCase *AuthUseCase,
	userUseCase *UserUseCase,
	imageUseCase *ImageUseCase,
) *AppUseCase {
	return &AppUseCase{
		Auth:  authUseCase,
		User:  userUseCase,
		Image: imageUseCase,
	}
}
