package model

import (
	"time"

	"astrapix-server/internal/consts"
)

type User struct {
	ID         uint                `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	Email      string              `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Username   string              `json:"username" gorm:"not null;size:64"`
	Password   string              `json:"-"` // google 账号为空
	Provider   consts.AuthProvider `json:"provider" gorm:"not null;default:local;size:16"`
	GoogleID   string              `json:"-" gorm:"index;size:64"`
	Avatar     string              `json:"avatar"`
	IsVerified bool                `json:"is_verified" gorm:"not null;default:false"`
	Credit     *Credit             `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	Images     []Image             `json:"-"`
}
