package service

import (
	"errors"

	"astrapix-server/internal/repository"
)

var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrLedgerNotFound      = errors.New("credit ledger not found")
	ErrInsufficientBalance = repository.ErrInsufficientBalance
	ErrInvalidSignature    = errors.New("invalid payment signature")
	ErrOrderCreationFailed = errors.New("order creation failed")
	ErrPaymentReplayed     = repository.ErrPaymentExists
	ErrGenerationFailed    = errors.New("image generation failed")
	ErrEmailNotVerified    = errors.New("email not verified")
)
