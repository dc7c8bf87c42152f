package models

import "time"

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:20;not null;default:'tourist';index" json:"role"`

	Phone     string `gorm:"size:30" json:"phone"`
	Bio       string `gorm:"size:1000" json:"bio"`
	Language  string `gorm:"size:10;default:'en'" json:"language"`
	City      string `gorm:"size:100" json:"city"`
	Country   string `gorm:"size:100" json:"country"`
	AvatarURL string `gorm:"size:500" json:"avatar_url"`
	AvatarKey string `gorm:"size:255" json:"-"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`
	IsBanned bool `gorm:"not null;default:false" json:"is_banned"`

	PasswordChangedAt *time.Time `json:"-"`
	LastLoginAt       *time.Time `json:"last_login_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Suspended reports whether the account must be refused access.
func (u *User) Suspended() bool {
	return u.IsBanned || !u.IsActive
}
