package service

import (
	"net/smtp"

	"astrapix-server/internal/integration/gateway"
	"astrapix-server/internal/integration/storage"
	"astrapix-server/internal/otp"
	repo "astrapix-server/internal/repository"

	"github.com/mojocn/base64Captcha"
)

type AuthService struct {
	userStore repo.UserStore
}

type CreditService struct {
	creditStore repo.CreditStore
}

type OTPService struct {
	register *otp.Register
}

type EmailService struct {
	send sendFunc
}

type CaptchaService struct {
	store base64Captcha.Store
}

type ImageService struct {
	imageStore  repo.ImageStore
	objectStore storage.ObjectStore
}

type PaymentService struct {
	gateway      gateway.Client
	paymentStore repo.PaymentStore
}

func NewAuthService(userStore repo.UserStore) *AuthService {
	return &AuthService{userStore: userStore}
}

func NewCreditService(creditStore repo.CreditStore) *CreditService {
	return &CreditService{creditStore: creditStore}
}

func NewEmailService() *EmailService {
	return &EmailService{send: smtp.SendMail}
}

func NewImageService(imageStore repo.ImageStore, objectStore storage.ObjectStore) *ImageService {
	return &ImageService{imageStore: imageStore, objectStore: objectStore}
}

func NewPaymentService(client gateway.Client, paymentStore repo.PaymentStore) *PaymentService {
	return &PaymentService{gateway: client, paymentStore: paymentStore}
}
