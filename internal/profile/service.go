package profile

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"backend-kayesworld/internal/db"
	"backend-kayesworld/internal/shared/apperr"

	"github.com/jackc/pgx/v5"
)

var displayNameRe = regexp.MustCompile(`^[a-zA-Z0-9\s'-]+$`)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, display_name, relationship, avatar_url, approved, created_at
		FROM profiles WHERE user_id = $1
	`, userID)

	var p Profile
	if err := row.Scan(&p.ID, &p.UserID, &p.DisplayName, &p.Relationship, &p.AvatarURL, &p.Approved, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, apperr.New(apperr.NotFound, "profile not found")
		}
		return Profile{}, apperr.Wrap(apperr.FetchFailed, "failed to load profile", err)
	}
	return p, nil
}

// UpdateOwn mutates only the fields the owning user controls.
func (s *Service) UpdateOwn(ctx context.Context, userID string, req UpdateRequest) (Profile, error) {
	name := strings.TrimSpace(req.DisplayName)
	if len(name) < 2 {
		return Profile{}, apperr.New(apperr.Validation, "name must be at least 2 characters")
	}
	if len(name) > 50 {
		return Profile{}, apperr.New(apperr.Validation, "name is too long (max 50 characters)")
	}
	if !displayNameRe.MatchString(name) {
		return Profile{}, apperr.New(apperr.Validation, "name contains invalid characters")
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE profiles
		SET display_name = $2, avatar_url = $3
		WHERE user_id = $1
	`, userID, name, req.AvatarURL)
	if err != nil {
		return Profile{}, apperr.Wrap(apperr.WriteFailed, "failed to update profile", err)
	}
	if tag.RowsAffected() == 0 {
		return Profile{}, apperr.New(apperr.NotFound, "profile not found")
	}
	return s.Get(ctx, userID)
}
