package storage

import (
	"context"
	"strings"
	"time"

	"backend-kayesworld/internal/db"
	"backend-kayesworld/internal/shared/apperr"

	"github.com/google/uuid"
)

const uploadURLTTL = 15 * time.Minute

// Object is a stored media file owned by a user, referenced by posts
// and avatars through its public URL.
type Object struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	URL       string    `json:"url"`
	Kind      string    `json:"kind"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Service struct {
	db      db.Querier
	baseURL string
}

func NewService(db db.Querier, baseURL string) *Service {
	if baseURL == "" {
		baseURL = "https://storage.kayesworld.example"
	}
	return &Service{db: db, baseURL: strings.TrimRight(baseURL, "/")}
}

// SaveObject records an uploaded file and mints its public URL.
func (s *Service) SaveObject(ctx context.Context, userID, fileName, kind string) (Object, error) {
	fileName = sanitizeFileName(fileName)
	if kind == "" {
		kind = "photo"
	}

	obj := Object{
		ID:        uuid.NewString(),
		UserID:    userID,
		URL:       s.baseURL + "/" + fileName,
		Kind:      kind,
		ExpiresAt: time.Now().Add(uploadURLTTL),
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO storage_objects (id, user_id, url, kind)
		VALUES ($1,$2,$3,$4)
	`, obj.ID, obj.UserID, obj.URL, obj.Kind)
	if err != nil {
		return Object{}, apperr.Wrap(apperr.WriteFailed, "failed to save upload", err)
	}
	return obj, nil
}

func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "..", "")
	name = strings.Trim(name, "-")
	if name == "" {
		return "upload"
	}
	return name
}
