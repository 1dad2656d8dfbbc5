package profile

import (
	"time"

	"backend-kayesworld/internal/shared/tier"
)

type Profile struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id"`
	DisplayName  string            `json:"display_name"`
	Relationship tier.Relationship `json:"relationship"`
	AvatarURL    *string           `json:"avatar_url"`
	Approved     bool              `json:"approved"`
	CreatedAt    time.Time         `json:"created_at"`
}

type UpdateRequest struct {
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}
