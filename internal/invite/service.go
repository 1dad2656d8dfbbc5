package invite

import (
	"context"
	"errors"
	"strings"
	"time"

	"backend-kayesworld/internal/db"
	"backend-kayesworld/internal/shared/apperr"
	"backend-kayesworld/internal/shared/tier"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Normalize returns the canonical stored form of a submitted code.
func Normalize(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < 4 {
		return "", apperr.New(apperr.Validation, "invite code is too short")
	}
	if len(code) > 50 {
		return "", apperr.New(apperr.Validation, "invite code is too long")
	}
	return code, nil
}

// Validate checks the redeemability predicate: active, under max uses,
// not expired. The returned code carries the relationship it grants.
func (s *Service) Validate(ctx context.Context, code string) (Code, error) {
	normalized, err := Normalize(code)
	if err != nil {
		return Code{}, err
	}

	row := s.db.QueryRow(ctx, `
		SELECT id, code, relationship, max_uses, uses_count, expires_at, is_active, created_by, created_at
		FROM invite_codes
		WHERE code = $1 AND is_active = true
	`, normalized)

	var c Code
	if err := row.Scan(&c.ID, &c.Code, &c.Relationship, &c.MaxUses, &c.UsesCount, &c.ExpiresAt, &c.IsActive, &c.CreatedBy, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Code{}, apperr.New(apperr.NotFound, "invalid invite code")
		}
		return Code{}, apperr.Wrap(apperr.FetchFailed, "failed to look up invite code", err)
	}

	if c.UsesCount >= c.MaxUses {
		return Code{}, apperr.New(apperr.Exhausted, "this invite code has reached its maximum uses")
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(time.Now()) {
		return Code{}, apperr.New(apperr.Expired, "this invite code has expired")
	}
	return c, nil
}

// Consume increments uses_count. The WHERE guard keeps uses_count from
// ever exceeding max_uses even under concurrent redemptions.
func (s *Service) Consume(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE invite_codes
		SET uses_count = uses_count + 1
		WHERE id = $1 AND uses_count < max_uses
	`, id)
	if err != nil {
		return apperr.Wrap(apperr.WriteFailed, "failed to consume invite code", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.Exhausted, "this invite code has reached its maximum uses")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, code string, rel tier.Relationship, maxUses int, expiresAt *time.Time, createdBy string) (Code, error) {
	normalized, err := Normalize(code)
	if err != nil {
		return Code{}, err
	}
	if rel == tier.Pending {
		return Code{}, apperr.New(apperr.Validation, "invite codes cannot grant the pending tier")
	}
	if maxUses < 1 {
		return Code{}, apperr.New(apperr.Validation, "max_uses must be at least 1")
	}

	c := Code{
		ID:           uuid.NewString(),
		Code:         normalized,
		Relationship: rel,
		MaxUses:      maxUses,
		ExpiresAt:    expiresAt,
		IsActive:     true,
		CreatedBy:    &createdBy,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO invite_codes (id, code, relationship, max_uses, expires_at, is_active, created_by)
		VALUES ($1,$2,$3,$4,$5,true,$6)
		RETURNING created_at
	`, c.ID, c.Code, c.Relationship, c.MaxUses, c.ExpiresAt, createdBy)
	if err := row.Scan(&c.CreatedAt); err != nil {
		return Code{}, apperr.Wrap(apperr.WriteFailed, "failed to create invite code", err)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]Code, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, code, relationship, max_uses, uses_count, expires_at, is_active, created_by, created_at
		FROM invite_codes
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, apperr.Wrap(apperr.FetchFailed, "failed to list invite codes", err)
	}
	defer rows.Close()

	var codes []Code
	for rows.Next() {
		var c Code
		if err := rows.Scan(&c.ID, &c.Code, &c.Relationship, &c.MaxUses, &c.UsesCount, &c.ExpiresAt, &c.IsActive, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.FetchFailed, "failed to list invite codes", err)
		}
		codes = append(codes, c)
	}
	return codes, nil
}
