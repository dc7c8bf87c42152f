package dto

import (
	"time"

	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

// UserSummaryDTO is what other users may see of an account.
type UserSummaryDTO struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
}

// UserContactDTO adds contact details, shown to booking participants.
type UserContactDTO struct {
	UserSummaryDTO
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// MeDTO is the caller's own account.
type MeDTO struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Phone       string     `json:"phone"`
	Bio         string     `json:"bio"`
	Language    string     `json:"language"`
	City        string     `json:"city"`
	Country     string     `json:"country"`
	AvatarURL   string     `json:"avatar_url"`
	IsActive    bool       `json:"is_active"`
	IsBanned    bool       `json:"is_banned"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewUserSummary(u models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:        u.ID,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		City:      u.City,
		Country:   u.Country,
	}
}

func NewUserContact(u models.User) UserContactDTO {
	return UserContactDTO{
		UserSummaryDTO: NewUserSummary(u),
		Email:          u.Email,
		Phone:          u.Phone,
	}
}

func NewMe(u *models.User) MeDTO {
	return MeDTO{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Phone:       u.Phone,
		Bio:         u.Bio,
		Language:    u.Language,
		City:        u.City,
		Country:     u.Country,
		AvatarURL:   u.AvatarURL,
		IsActive:    u.IsActive,
		IsBanned:    u.IsBanned,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

func NewMeList(users []models.User) []MeDTO {
	out := make([]MeDTO, 0, len(users))
	for i := range users {
		out = append(out, NewMe(&users[i]))
	}
	return out
}
