package admin

import (
	"context"
	"log"

	"backend-kayesworld/internal/activity"
	"backend-kayesworld/internal/db"
	"backend-kayesworld/internal/shared/apperr"
	"backend-kayesworld/internal/shared/tier"
)

const recentActivityLimit = 20

type Service struct {
	db  db.Querier
	act *activity.Service
}

func NewService(db db.Querier, act *activity.Service) *Service {
	return &Service{db: db, act: act}
}

// IsAdmin reports whether the user holds a row in admin_users. Lookup
// failures report false so the guard fails closed.
func (s *Service) IsAdmin(ctx context.Context, userID string) bool {
	if userID == "" {
		return false
	}
	var isAdmin bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM admin_users WHERE user_id = $1)
	`, userID).Scan(&isAdmin)
	if err != nil {
		log.Printf("admin lookup failed for user %s: %v", userID, err)
		return false
	}
	return isAdmin
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	counts := []struct {
		dst   *int
		query string
	}{
		{&stats.Counts.TotalUsers, `SELECT COUNT(*) FROM users`},
		{&stats.Counts.ApprovedUsers, `SELECT COUNT(*) FROM profiles WHERE approved = true`},
		{&stats.Counts.PendingUsers, `SELECT COUNT(*) FROM profiles WHERE approved = false`},
		{&stats.Counts.Posts, `SELECT COUNT(*) FROM posts`},
		{&stats.Counts.Comments, `SELECT COUNT(*) FROM comments`},
		{&stats.Counts.Reactions, `SELECT COUNT(*) FROM reactions`},
		{&stats.Counts.PostsLast7d, `SELECT COUNT(*) FROM posts WHERE created_at > now() - interval '7 days'`},
		{&stats.Counts.SignupsLast7d, `SELECT COUNT(*) FROM users WHERE created_at > now() - interval '7 days'`},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(ctx, c.query).Scan(c.dst); err != nil {
			return Stats{}, apperr.Wrap(apperr.FetchFailed, "failed to load stats", err)
		}
	}

	recent, err := s.act.Recent(ctx, recentActivityLimit)
	if err != nil {
		return Stats{}, apperr.Wrap(apperr.FetchFailed, "failed to load recent activity", err)
	}
	if recent == nil {
		recent = []activity.Entry{}
	}
	stats.RecentActivity = recent

	pending, err := s.pendingProfiles(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats.PendingProfiles = pending
	return stats, nil
}

func (s *Service) pendingProfiles(ctx context.Context) ([]PendingProfile, error) {
	rows, err := s.db.Query(ctx, `
		SELECT user_id, display_name, relationship, created_at
		FROM profiles
		WHERE approved = false
		ORDER BY created_at
	`)
	if err != nil {
		return nil, apperr.Wrap(apperr.FetchFailed, "failed to load pending profiles", err)
	}
	defer rows.Close()

	pending := []PendingProfile{}
	for rows.Next() {
		var p PendingProfile
		if err := rows.Scan(&p.UserID, &p.DisplayName, &p.Relationship, &p.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.FetchFailed, "failed to load pending profiles", err)
		}
		pending = append(pending, p)
	}
	return pending, nil
}

// ApproveUser flips the profile to approved and assigns its tier.
// Pending is not a grantable tier.
func (s *Service) ApproveUser(ctx context.Context, adminID, userID, relationship string) error {
	if userID == "" {
		return apperr.New(apperr.Validation, "user_id is required")
	}
	rel, err := tier.ParseRelationship(relationship)
	if err != nil || rel == tier.Pending {
		return apperr.New(apperr.Validation, "relationship must be family, inner_circle, or friend")
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE profiles
		SET approved = true, relationship = $1, approved_by = $2, updated_at = now()
		WHERE user_id = $3
	`, rel, adminID, userID)
	if err != nil {
		return apperr.Wrap(apperr.WriteFailed, "failed to approve user", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "profile not found")
	}

	if _, err := s.act.Log(ctx, activity.Entry{
		UserID:     &adminID,
		Action:     "approve_user",
		EntityType: strPtr("profile"),
		EntityID:   &userID,
		Metadata:   map[string]any{"relationship": string(rel)},
	}); err != nil {
		log.Printf("approve_user audit write failed: %v", err)
	}
	return nil
}

func strPtr(s string) *string { return &s }
