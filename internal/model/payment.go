package model

import "time"

// Payment 记录一次已验签并入账的支付，OrderID 唯一，用于防止同一订单重复入账。
type Payment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	OrderID   string    `json:"order_id" gorm:"not null;uniqueIndex;size:64"`
	PaymentID string    `json:"payment_id" gorm:"not null;size:64"`
	Credits   int64     `json:"credits" gorm:"not null"`
	Amount    int64     `json:"amount" gorm:"not null"`
	Currency  string    `json:"currency" gorm:"not null;size:8"`
	CreatedAt time.Time `json:"created_at"`
}
