package feed

import (
	"time"

	"backend-kayesworld/internal/shared/tier"
)

const (
	maxPostLen    = 5000
	maxCommentLen = 1000
)

type Author struct {
	DisplayName  string            `json:"display_name"`
	AvatarURL    *string           `json:"avatar_url"`
	Relationship tier.Relationship `json:"relationship"`
}

type Media struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	URL       string    `json:"url"`
	MediaType string    `json:"media_type"`
	CreatedAt time.Time `json:"created_at"`
}

// PostView is a fully-populated feed item: the post row plus everything
// the timeline needs to render it.
type PostView struct {
	ID               string        `json:"id"`
	AuthorID         string        `json:"author_id"`
	Content          string        `json:"content"`
	Audience         tier.Audience `json:"audience"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	Author           *Author       `json:"author,omitempty"`
	Media            []Media       `json:"media"`
	ReactionsCount   int           `json:"reactions_count"`
	CommentsCount    int           `json:"comments_count"`
	ViewerHasReacted bool          `json:"user_has_reacted"`
}

type CommentAuthor struct {
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

type Comment struct {
	ID        string         `json:"id"`
	PostID    string         `json:"post_id"`
	AuthorID  string         `json:"author_id"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Author    *CommentAuthor `json:"author,omitempty"`
}
