package repository

import (
	"context"
	"errors"

	"astrapix-server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreditRepository struct {
	db *gorm.DB
}

func (r *CreditRepository) GetBalance(ctx context.Context, userID uint) (int64, error) {
	return readBalance(r.db.WithContext(ctx), userID)
}

func (r *CreditRepository) AddBalance(ctx context.Context, userID uint, amount int64) (int64, error) {
	var balance int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertCredit(tx, userID, amount); err != nil {
			return err
		}
		var err error
		balance, err = readBalance(tx, userID)
		return err
	})
	return balance, err
}

func (r *CreditRepository) DeductBalance(ctx context.Context, userID uint, amount int64) (int64, error) {
	var balance int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deductCredit(tx, userID, amount); err != nil {
			return err
		}
		var err error
		balance, err = readBalance(tx, userID)
		return err
	})
	return balance, err
}

func readBalance(tx *gorm.DB, userID uint) (int64, error) {
	var credit model.Credit
	if err := tx.Select("balance").Where("user_id = ?", userID).First(&credit).Error; err != nil {
		return 0, err
	}
	return credit.Balance, nil
}

// upsertCredit INSERT ... ON CONFLICT(user_id) DO UPDATE SET balance = credits.balance + amount
func upsertCredit(tx *gorm.DB, userID uint, amount int64) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"balance": gorm.Expr("credits.balance + ?", amount)}),
	}).Create(&model.Credit{UserID: userID, Balance: amount}).Error
}

// deductCredit UPDATE credits SET balance = balance - amount WHERE user_id = ? AND balance >= amount
func deductCredit(tx *gorm.DB, userID uint, amount int64) error {
	res := tx.Model(&model.Credit{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := tx.Model(&model.Credit{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return ErrInsufficientBalance
}

// IsNotFound 判断是否为记录不存在。
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
