package model

import "time"

// Credit 是用户的积分账本，每个用户至多一行。
type Credit struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex"`
	Balance   int64     `json:"balance" gorm:"not null;default:0;check:balance >= 0"`
	UpdatedAt time.Time `json:"updated_at"`
}
