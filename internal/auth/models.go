package auth

import (
	"time"

	"backend-kayesworld/internal/shared/tier"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Profile struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id"`
	DisplayName  string            `json:"display_name"`
	Relationship tier.Relationship `json:"relationship"`
	AvatarURL    *string           `json:"avatar_url"`
	Approved     bool              `json:"approved"`
	CreatedAt    time.Time         `json:"created_at"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	InviteCode  string `json:"invite_code"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}
