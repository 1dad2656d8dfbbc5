package activity

import (
	"context"
	"encoding/json"

	"backend-kayesworld/internal/db"

	"github.com/google/uuid"
)

const (
	maxActionLen     = 100
	maxEntityTypeLen = 50
	maxUserAgentLen  = 500
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Log appends one audit row. Callers treat failures as best-effort: the
// returned error is for logging, never for failing the primary action.
func (s *Service) Log(ctx context.Context, entry Entry) (string, error) {
	entry.ID = uuid.NewString()
	entry.Action = truncate(entry.Action, maxActionLen)
	if entry.EntityType != nil {
		et := truncate(*entry.EntityType, maxEntityTypeLen)
		entry.EntityType = &et
	}
	entry.UserAgent = truncate(entry.UserAgent, maxUserAgentLen)
	if entry.Metadata == nil {
		entry.Metadata = map[string]any{}
	}

	meta, err := json.Marshal(entry.Metadata)
	if err != nil {
		return "", err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO activity_logs (id, user_id, action, entity_type, entity_id, metadata, ip_address, user_agent)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, entry.ID, entry.UserID, entry.Action, entry.EntityType, entry.EntityID, meta, entry.IPAddress, entry.UserAgent)
	if err != nil {
		return "", err
	}
	return entry.ID, nil
}

func (s *Service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, action, entity_type, entity_id, metadata, ip_address, user_agent, created_at
		FROM activity_logs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var meta []byte
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.EntityType, &e.EntityID, &meta, &e.IPAddress, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &e.Metadata)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
