package repository

import (
	"gorm.io/gorm"
)

type Repositories struct {
	User    UserStore
	Credit  CreditStore
	Image   ImageStore
	Payment PaymentStore
}

func NewUserRepository(db *gorm.DB) UserStore {
	return &UserRepository{db: db}
}

func NewCreditRepository(db *gorm.DB) CreditStore {
	return &CreditRepository{db: db}
}

func NewImageRepository(db *gorm.DB) ImageStore {
	return &ImageRepository{db: db}
}

func NewPaymentRepository(db *gorm.DB) PaymentStore {
	return &PaymentRepository{db: db}
}

func NewRepositories(user UserStore, credit CreditStore, image ImageStore, payment PaymentStore) *Repositories {
	return &Repositories{
		User:    user,
		Credit:  credit,
		Image:   image,
		Payment: payment,
	}
}
