//go:build wireinject
// +build wireinject

package di

import (
	"astrapix-server/internal/handler"
	"astrapix-server/internal/integration/storage"
	"astrapix-server/internal/repository"
	"astrapix-server/internal/router"
	"astrapix-server/internal/service"
	"astrapix-server/internal/usecase/app"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func InitializeApplication(gormDB *gorm.DB, redisClient *redis.Client, objectStore storage.ObjectStore) (*Application, error) {
	wire.Build(
		repository.NewUserRepository,
		repository.NewCreditRepository,
		repository.NewImageRepository,
		repository.NewPaymentRepository,
		provideGateway,
		provideGenerator,
		provideOAuth,
		service.NewAuthService,
		service.NewCreditService,
		service.NewOTPStore,
		service.NewOTPService,
		service.NewEmailService,
		wire.Bind(new(app.Mailer), new(*service.EmailService)),
		service.NewCaptchaService,
		service.NewImageService,
		service.NewPaymentService,
		app.NewAuthUseCase,
		app.NewUserUseCase,
		app.NewImageUseCase,
		handler.NewAuthHandler,
		handler.NewUserHandler,
		handler.NewImageHandler,
		handler.NewPaymentHandler,
		handler.NewCaptchaHandler,
		router.NewRouter,
		NewApplication,
	)
	return nil, nil
}
