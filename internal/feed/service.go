package feed

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"backend-kayesworld/internal/db"
	"backend-kayesworld/internal/shared/apperr"
	"backend-kayesworld/internal/shared/tier"
	"backend-kayesworld/internal/stream"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"
)

const timelineTopic = "timeline"

type Service struct {
	db  db.Querier
	hub *stream.Hub
}

func NewService(db db.Querier, hub *stream.Hub) *Service {
	return &Service{db: db, hub: hub}
}

// Feed returns the viewer's timeline, newest first. Posts are filtered
// by the viewer's relationship against each post's audience; every post
// is then enriched per-post with author, media, and engagement counts.
// A failed enrichment lookup degrades that one post, never the feed.
func (s *Service) Feed(ctx context.Context, viewerID string) ([]PostView, error) {
	if viewerID == "" {
		return []PostView{}, nil
	}

	rel, approved, err := s.viewerStanding(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	audiences := lo.Map(tier.VisibleAudiences(rel, approved), func(a tier.Audience, _ int) string {
		return string(a)
	})

	rows, err := s.db.Query(ctx, `
		SELECT id, author_id, content, audience, created_at, updated_at
		FROM posts
		WHERE author_id = $1 OR audience = ANY($2)
		ORDER BY created_at DESC
	`, viewerID, audiences)
	if err != nil {
		return nil, apperr.Wrap(apperr.FetchFailed, "failed to load posts", err)
	}
	defer rows.Close()

	var posts []PostView
	for rows.Next() {
		var p PostView
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Content, &p.Audience, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, apperr.Wrap(apperr.FetchFailed, "failed to load posts", err)
		}
		posts = append(posts, p)
	}

	for i := range posts {
		s.enrich(ctx, viewerID, &posts[i])
	}
	if posts == nil {
		posts = []PostView{}
	}
	return posts, nil
}

func (s *Service) viewerStanding(ctx context.Context, viewerID string) (tier.Relationship, bool, error) {
	var rel tier.Relationship
	var approved bool
	err := s.db.QueryRow(ctx, `
		SELECT relationship, approved FROM profiles WHERE user_id = $1
	`, viewerID).Scan(&rel, &approved)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tier.Pending, false, nil
		}
		return "", false, apperr.Wrap(apperr.FetchFailed, "failed to load viewer profile", err)
	}
	return rel, approved, nil
}

// enrich performs the per-post fan-out: author, media, reaction count,
// viewer reaction, comment count. Lookups fail independently.
func (s *Service) enrich(ctx context.Context, viewerID string, p *PostView) {
	var author Author
	err := s.db.QueryRow(ctx, `
		SELECT display_name, avatar_url, relationship
		FROM profiles WHERE user_id = $1
	`, p.AuthorID).Scan(&author.DisplayName, &author.AvatarURL, &author.Relationship)
	if err == nil {
		p.Author = &author
	} else if !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("author lookup failed for post %s: %v", p.ID, err)
	}

	p.Media = s.loadMedia(ctx, p.ID)

	if err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM reactions WHERE post_id = $1
	`, p.ID).Scan(&p.ReactionsCount); err != nil {
		log.Printf("reaction count failed for post %s: %v", p.ID, err)
	}

	if err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM reactions WHERE post_id = $1 AND user_id = $2)
	`, p.ID, viewerID).Scan(&p.ViewerHasReacted); err != nil {
		log.Printf("viewer reaction lookup failed for post %s: %v", p.ID, err)
	}

	if err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM comments WHERE post_id = $1
	`, p.ID).Scan(&p.CommentsCount); err != nil {
		log.Printf("comment count failed for post %s: %v", p.ID, err)
	}
}

func (s *Service) loadMedia(ctx context.Context, postID string) []Media {
	rows, err := s.db.Query(ctx, `
		SELECT id, post_id, url, media_type, created_at
		FROM post_media WHERE post_id = $1
		ORDER BY created_at
	`, postID)
	if err != nil {
		log.Printf("media lookup failed for post %s: %v", postID, err)
		return []Media{}
	}
	defer rows.Close()

	media := []Media{}
	for rows.Next() {
		var m Media
		if err := rows.Scan(&m.ID, &m.PostID, &m.URL, &m.MediaType, &m.CreatedAt); err != nil {
			log.Printf("media scan failed for post %s: %v", postID, err)
			return media
		}
		media = append(media, m)
	}
	return media
}

func (s *Service) CreatePost(ctx context.Context, authorID, content, audience string, mediaURLs []string) (PostView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return PostView{}, apperr.New(apperr.Validation, "content cannot be empty")
	}
	if len(content) > maxPostLen {
		return PostView{}, apperr.New(apperr.Validation, "content is too long (max 5000 characters)")
	}
	aud, err := tier.ParseAudience(audience)
	if err != nil {
		return PostView{}, apperr.New(apperr.Validation, "invalid audience")
	}

	post := PostView{
		ID:       uuid.NewString(),
		AuthorID: authorID,
		Content:  content,
		Audience: aud,
		Media:    []Media{},
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (id, author_id, content, audience)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at
	`, post.ID, post.AuthorID, post.Content, post.Audience)
	if err := row.Scan(&post.CreatedAt, &post.UpdatedAt); err != nil {
		return PostView{}, apperr.Wrap(apperr.WriteFailed, "failed to create post", err)
	}

	for _, url := range mediaURLs {
		m := Media{ID: uuid.NewString(), PostID: post.ID, URL: url, MediaType: "image"}
		err := s.db.QueryRow(ctx, `
			INSERT INTO post_media (id, post_id, url, media_type)
			VALUES ($1,$2,$3,$4)
			RETURNING created_at
		`, m.ID, m.PostID, m.URL, m.MediaType).Scan(&m.CreatedAt)
		if err != nil {
			log.Printf("media insert failed for post %s: %v", post.ID, err)
			continue
		}
		post.Media = append(post.Media, m)
	}

	s.broadcast("posts", "insert")
	return post, nil
}

func (s *Service) DeletePost(ctx context.Context, viewerID, postID string) error {
	authorID, err := s.rowAuthor(ctx, `SELECT author_id FROM posts WHERE id = $1`, postID, "post")
	if err != nil {
		return err
	}
	if authorID != viewerID {
		return apperr.New(apperr.Forbidden, "only the author may delete a post")
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, postID); err != nil {
		return apperr.Wrap(apperr.WriteFailed, "failed to delete post", err)
	}
	s.broadcast("posts", "delete")
	return nil
}

// ToggleReaction flips the viewer's heart on a post in one atomic
// statement: the CTE removes an existing reaction, the insert fires only
// when nothing was removed. Returns whether the viewer has a reaction
// after the call.
func (s *Service) ToggleReaction(ctx context.Context, viewerID, postID string) (bool, error) {
	row := s.db.QueryRow(ctx, `
		WITH removed AS (
			DELETE FROM reactions WHERE post_id = $1 AND user_id = $2 RETURNING id
		)
		INSERT INTO reactions (id, post_id, user_id, reaction_type)
		SELECT $3, $1, $2, 'heart'
		WHERE NOT EXISTS (SELECT 1 FROM removed)
		RETURNING id
	`, postID, viewerID, uuid.NewString())

	var id string
	err := row.Scan(&id)
	reacted := true
	if errors.Is(err, pgx.ErrNoRows) {
		reacted = false
	} else if err != nil {
		return false, apperr.Wrap(apperr.WriteFailed, "failed to update reaction", err)
	}

	s.broadcast("reactions", "toggle")
	return reacted, nil
}

// Comments returns a post's comment thread, oldest first, each enriched
// with its author. Author lookups degrade individually.
func (s *Service) Comments(ctx context.Context, postID string) ([]Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, post_id, author_id, content, created_at, updated_at
		FROM comments WHERE post_id = $1
		ORDER BY created_at
	`, postID)
	if err != nil {
		return nil, apperr.Wrap(apperr.FetchFailed, "failed to load comments", err)
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, apperr.Wrap(apperr.FetchFailed, "failed to load comments", err)
		}
		comments = append(comments, c)
	}

	for i := range comments {
		var author CommentAuthor
		err := s.db.QueryRow(ctx, `
			SELECT display_name, avatar_url FROM profiles WHERE user_id = $1
		`, comments[i].AuthorID).Scan(&author.DisplayName, &author.AvatarURL)
		if err == nil {
			comments[i].Author = &author
		} else if !errors.Is(err, pgx.ErrNoRows) {
			log.Printf("comment author lookup failed for comment %s: %v", comments[i].ID, err)
		}
	}
	return comments, nil
}

func (s *Service) AddComment(ctx context.Context, authorID, postID, content string) (Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Comment{}, apperr.New(apperr.Validation, "comment cannot be empty")
	}
	if len(content) > maxCommentLen {
		return Comment{}, apperr.New(apperr.Validation, "comment is too long (max 1000 characters)")
	}

	comment := Comment{
		ID:       uuid.NewString(),
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO comments (id, post_id, author_id, content)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at
	`, comment.ID, comment.PostID, comment.AuthorID, comment.Content)
	if err := row.Scan(&comment.CreatedAt, &comment.UpdatedAt); err != nil {
		return Comment{}, apperr.Wrap(apperr.WriteFailed, "failed to add comment", err)
	}

	s.broadcast("comments", "insert")
	return comment, nil
}

func (s *Service) DeleteComment(ctx context.Context, viewerID, commentID string) error {
	authorID, err := s.rowAuthor(ctx, `SELECT author_id FROM comments WHERE id = $1`, commentID, "comment")
	if err != nil {
		return err
	}
	if authorID != viewerID {
		return apperr.New(apperr.Forbidden, "only the author may delete a comment")
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, commentID); err != nil {
		return apperr.Wrap(apperr.WriteFailed, "failed to delete comment", err)
	}
	s.broadcast("comments", "delete")
	return nil
}

func (s *Service) rowAuthor(ctx context.Context, query, id, entity string) (string, error) {
	var authorID string
	if err := s.db.QueryRow(ctx, query, id).Scan(&authorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.New(apperr.NotFound, entity+" not found")
		}
		return "", apperr.Wrap(apperr.FetchFailed, "failed to load "+entity, err)
	}
	return authorID, nil
}

func (s *Service) broadcast(table, action string) {
	if s.hub == nil {
		return
	}
	payload, _ := json.Marshal(map[string]string{"table": table, "action": action})
	s.hub.Broadcast(timelineTopic, payload)
}
