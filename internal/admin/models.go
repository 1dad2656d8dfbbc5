package admin

import (
	"time"

	"backend-kayesworld/internal/activity"
	"backend-kayesworld/internal/shared/tier"
)

type Counts struct {
	TotalUsers    int `json:"total_users"`
	ApprovedUsers int `json:"approved_users"`
	PendingUsers  int `json:"pending_users"`
	Posts         int `json:"posts"`
	Comments      int `json:"comments"`
	Reactions     int `json:"reactions"`
	PostsLast7d   int `json:"posts_last_7d"`
	SignupsLast7d int `json:"signups_last_7d"`
}

type PendingProfile struct {
	UserID       string            `json:"user_id"`
	DisplayName  string            `json:"display_name"`
	Relationship tier.Relationship `json:"relationship"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Stats is the dashboard payload: aggregate counts, the recent audit
// trail, and every profile still waiting on approval.
type Stats struct {
	Counts          Counts           `json:"counts"`
	RecentActivity  []activity.Entry `json:"recent_activity"`
	PendingProfiles []PendingProfile `json:"pending_profiles"`
}
