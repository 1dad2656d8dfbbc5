package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend-kayesworld/internal/shared/apperr"
	"backend-kayesworld/internal/shared/tier"

	"github.com/pashagolub/pgxmock/v3"
)

func profileRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "user_id", "display_name", "relationship", "avatar_url", "approved", "created_at"})
}

func TestGet(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, user_id, display_name, relationship, avatar_url, approved, created_at`).
		WithArgs("user-1").
		WillReturnRows(profileRows().AddRow("profile-1", "user-1", "Kaye", tier.Family, nil, true, time.Now()))

	svc := NewService(mock)
	p, err := svc.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Relationship != tier.Family || !p.Approved {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestGetNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, user_id, display_name, relationship, avatar_url, approved, created_at`).
		WithArgs("user-1").
		WillReturnRows(profileRows())

	svc := NewService(mock)
	if _, err := svc.Get(context.Background(), "user-1"); apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestUpdateOwn(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	avatar := "https://cdn.example/kaye.png"
	mock.ExpectExec(`UPDATE profiles`).
		WithArgs("user-1", "Kaye M", &avatar).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`SELECT id, user_id, display_name, relationship, avatar_url, approved, created_at`).
		WithArgs("user-1").
		WillReturnRows(profileRows().AddRow("profile-1", "user-1", "Kaye M", tier.Family, &avatar, true, time.Now()))

	svc := NewService(mock)
	p, err := svc.UpdateOwn(context.Background(), "user-1", UpdateRequest{DisplayName: " Kaye M ", AvatarURL: &avatar})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.DisplayName != "Kaye M" {
		t.Fatalf("unexpected display name: %s", p.DisplayName)
	}
}

func TestUpdateOwnValidation(t *testing.T) {
	svc := NewService(nil)
	if _, err := svc.UpdateOwn(context.Background(), "user-1", UpdateRequest{DisplayName: "x"}); apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("expected Validation for short name")
	}
	if _, err := svc.UpdateOwn(context.Background(), "user-1", UpdateRequest{DisplayName: "Kaye <script>"}); apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("expected Validation for bad characters")
	}
}

func TestUpdateOwnNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`UPDATE profiles`).
		WithArgs("ghost", "Kaye", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	svc := NewService(mock)
	if _, err := svc.UpdateOwn(context.Background(), "ghost", UpdateRequest{DisplayName: "Kaye"}); apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestGetQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, user_id, display_name, relationship, avatar_url, approved, created_at`).
		WithArgs("user-1").
		WillReturnError(errProfile)

	svc := NewService(mock)
	if _, err := svc.Get(context.Background(), "user-1"); apperr.KindOf(err) != apperr.FetchFailed {
		t.Fatalf("expected FetchFailed, got %v", err)
	}
}

var errProfile = errors.New("profile error")
