package model

import "time"

type Image struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	Prompt      string    `json:"prompt" gorm:"type:text;not null"`
	ImageURL    string    `json:"image_url" gorm:"not null"`
	StorageKey  string    `json:"-" gorm:"size:512"`
	GeneratedAt time.Time `json:"generated_at" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	User        User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}
