package activity

import "time"

type Entry struct {
	ID         string         `json:"id"`
	UserID     *string        `json:"user_id"`
	Action     string         `json:"action"`
	EntityType *string        `json:"entity_type"`
	EntityID   *string        `json:"entity_id"`
	Metadata   map[string]any `json:"metadata"`
	IPAddress  string         `json:"ip_address"`
	UserAgent  string         `json:"user_agent"`
	CreatedAt  time.Time      `json:"created_at"`
}
