package dto

import (
	"time"

	"github.com/spec-kit/record-service/internal/domain"
)

// LoginRequest payload; UserName accepts username, email or phone.
type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	UserName        string `json:"userName"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Avatar          string `json:"avatar"`
	Remark          string `json:"remark"`
}

// UserInfo is the public view of an account.
type UserInfo struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar"`
	Status   string `json:"status"`
}

// LoginResponse is returned by login, register and refresh.
type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserInfo  *UserInfo `json:"userInfo,omitempty"`
}

// NewUserInfo maps a domain user to its public view.
func NewUserInfo(user *domain.User) *UserInfo {
	return &UserInfo{
		UserID:   user.ID,
		UserName: user.UserName,
		Email:    user.Email,
		Phone:    user.Phone,
		Avatar:   user.Avatar,
		Status:   string(user.Status),
	}
}

// UpdateProfileRequest carries optional profile changes.
type UpdateProfileRequest struct {
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Avatar *string `json:"avatar"`
	Remark *string `json:"remark"`
}
