package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"backend-kayesworld/internal/activity"
	"backend-kayesworld/internal/db"
	"backend-kayesworld/internal/invite"
	"backend-kayesworld/internal/shared/apperr"
	"backend-kayesworld/internal/shared/tier"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour

	uniqueViolation = "23505"
)

type Service struct {
	secret   []byte
	db       db.Querier
	invites  *invite.Service
	activity *activity.Service
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func NewService(secret string, q db.Querier, invites *invite.Service, act *activity.Service) *Service {
	return &Service{
		secret:   []byte(secret),
		db:       q,
		invites:  invites,
		activity: act,
	}
}

// Register redeems an invite code and provisions the account behind it.
// The profile starts pending, then the trusted approval path flips it to
// the code's tier and consumes one use. A failed consume after approval
// is logged and tolerated; access is never rolled back for it.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (User, Profile, TokenResponse, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	if err := validateDisplayName(req.DisplayName); err != nil {
		return User{}, Profile{}, TokenResponse{}, err
	}
	if err := validateEmail(req.Email); err != nil {
		return User{}, Profile{}, TokenResponse{}, err
	}
	if err := validatePassword(req.Password); err != nil {
		return User{}, Profile{}, TokenResponse{}, err
	}

	code, err := s.invites.Validate(ctx, req.InviteCode)
	if err != nil {
		return User{}, Profile{}, TokenResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, Profile{}, TokenResponse{}, apperr.Wrap(apperr.Internal, "failed to create account", err)
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1,$2,$3)
		RETURNING created_at, updated_at
	`, user.ID, user.Email, user.PasswordHash)
	if err := row.Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, Profile{}, TokenResponse{}, apperr.New(apperr.Validation, "an account with this email already exists")
		}
		return User{}, Profile{}, TokenResponse{}, apperr.Wrap(apperr.WriteFailed, "failed to create account", err)
	}

	profile := Profile{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		DisplayName:  req.DisplayName,
		Relationship: tier.Pending,
	}
	row = s.db.QueryRow(ctx, `
		INSERT INTO profiles (id, user_id, display_name, relationship, approved)
		VALUES ($1,$2,$3,$4,false)
		RETURNING created_at
	`, profile.ID, profile.UserID, profile.DisplayName, profile.Relationship)
	if err := row.Scan(&profile.CreatedAt); err != nil {
		return User{}, Profile{}, TokenResponse{}, apperr.Wrap(apperr.WriteFailed, "failed to create profile", err)
	}

	// Trusted approval path: the redeemed code grants its tier directly.
	_, err = s.db.Exec(ctx, `
		UPDATE profiles
		SET approved = true, relationship = $2
		WHERE user_id = $1
	`, user.ID, code.Relationship)
	if err != nil {
		return User{}, Profile{}, TokenResponse{}, apperr.Wrap(apperr.WriteFailed, "failed to approve profile", err)
	}
	profile.Approved = true
	profile.Relationship = code.Relationship

	if err := s.invites.Consume(ctx, code.ID); err != nil {
		log.Printf("invite use count drift for code %s: %v", code.ID, err)
	}

	if s.activity != nil {
		entityType := "profile"
		if _, err := s.activity.Log(ctx, activity.Entry{
			UserID:     &user.ID,
			Action:     "invite_redeemed",
			EntityType: &entityType,
			EntityID:   &profile.ID,
			Metadata:   map[string]any{"relationship": string(code.Relationship)},
		}); err != nil {
			log.Printf("activity log failed: %v", err)
		}
	}

	tokens, err := s.GenerateTokens(ctx, user.ID)
	if err != nil {
		return User{}, Profile{}, TokenResponse{}, err
	}
	return user, profile, tokens, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (User, TokenResponse, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at, updated_at
		FROM users WHERE email = $1
	`, strings.TrimSpace(strings.ToLower(req.Email)))

	var user User
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, TokenResponse{}, apperr.New(apperr.Unauthorized, "invalid credentials")
		}
		return User{}, TokenResponse{}, apperr.Wrap(apperr.FetchFailed, "failed to look up account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return User{}, TokenResponse{}, apperr.New(apperr.Unauthorized, "invalid credentials")
	}

	tokens, err := s.GenerateTokens(ctx, user.ID)
	if err != nil {
		return User{}, TokenResponse{}, err
	}
	return user, tokens, nil
}

func (s *Service) GenerateTokens(ctx context.Context, userID string) (TokenResponse, error) {
	access, err := s.signToken(userID, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, apperr.Wrap(apperr.Internal, "failed to issue session", err)
	}

	refresh, err := s.signToken(userID, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, apperr.Wrap(apperr.Internal, "failed to issue session", err)
	}

	if err := s.saveRefreshToken(ctx, refresh, userID, refreshTokenTTL); err != nil {
		return TokenResponse{}, apperr.Wrap(apperr.WriteFailed, "failed to persist session", err)
	}

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) ValidateRefreshToken(ctx context.Context, token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", apperr.New(apperr.Unauthorized, "refresh token invalid")
	}

	userID, expiresAt, err := s.lookupRefreshToken(ctx, token)
	if err != nil || userID != claims.UserID || time.Now().After(expiresAt) {
		return "", apperr.New(apperr.Unauthorized, "refresh token invalid")
	}
	return claims.UserID, nil
}

func (s *Service) ValidateAccessToken(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", apperr.New(apperr.Unauthorized, "token invalid")
	}
	return claims.UserID, nil
}

func (s *Service) signToken(userID string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

func (s *Service) saveRefreshToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at)
		VALUES ($1,$2,$3,$4)
	`, uuid.NewString(), userID, token, time.Now().Add(ttl))
	return err
}

func (s *Service) lookupRefreshToken(ctx context.Context, token string) (string, time.Time, error) {
	row := s.db.QueryRow(ctx, `
		SELECT user_id, expires_at
		FROM refresh_tokens
		WHERE token = $1 AND revoked_at IS NULL
	`, token)
	var userID string
	var expiresAt time.Time
	if err := row.Scan(&userID, &expiresAt); err != nil {
		return "", time.Time{}, err
	}
	return userID, expiresAt, nil
}
