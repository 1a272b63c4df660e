package repository

import (
	"context"

	"astrapix-server/internal/model"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func (r *PaymentRepository) RecordAndCredit(ctx context.Context, payment *model.Payment) (int64, error) {
	var balance int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Payment{}).Where("order_id = ?", payment.OrderID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrPaymentExists
		}

		// order_id 唯一索引兜底并发重放
		if err := tx.Create(payment).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrPaymentExists
			}
			return err
		}
		if err := upsertCredit(tx, payment.UserID, payment.Credits); err != nil {
			return err
		}
		var err error
		balance, err = readBalance(tx, payment.UserID)
		return err
	})
	return balance, err
}

func (r *PaymentRepository) ListByUserID(ctx context.Context, userID uint) ([]model.Payment, error) {
	var payments []model.Payment
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id desc").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
