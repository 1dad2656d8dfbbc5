package invite

import (
	"time"

	"backend-kayesworld/internal/shared/tier"
)

type Code struct {
	ID           string            `json:"id"`
	Code         string            `json:"code"`
	Relationship tier.Relationship `json:"relationship"`
	MaxUses      int               `json:"max_uses"`
	UsesCount    int               `json:"uses_count"`
	ExpiresAt    *time.Time        `json:"expires_at"`
	IsActive     bool              `json:"is_active"`
	CreatedBy    *string           `json:"created_by"`
	CreatedAt    time.Time         `json:"created_at"`
}
