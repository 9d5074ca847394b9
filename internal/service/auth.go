package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/movie-catalog/internal/apperr"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/projection"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

// UserStore is the part of the user repository the auth flow needs.
type UserStore interface {
	Create(ctx context.Context, username, email, password string, cost int) (uint64, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// TokenStore persists refresh token hashes.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
}

// AuthConfig carries the token and hashing settings.
type AuthConfig struct {
	Secret         string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
}

// AuthService registers users and issues, refreshes and revokes tokens.
type AuthService struct {
	users  UserStore
	tokens TokenStore
	cfg    AuthConfig
}

func NewAuthService(users UserStore, tokens TokenStore, cfg AuthConfig) *AuthService {
	return &AuthService{users: users, tokens: tokens, cfg: cfg}
}

// Credentials is a validated registration request.
type Credentials struct {
	Username string
	Email    string
	Password string
}

// Register creates a simple-tier user and returns a fresh session.
func (s *AuthService) Register(ctx context.Context, in Credentials) (projection.Session, error) {
	uid, err := s.users.Create(ctx, in.Username, in.Email, in.Password, s.cfg.BcryptCost)
	if errors.Is(err, repository.ErrUsernameExists) {
		return projection.Session{}, apperr.Conflict("a user with that username already exists")
	}
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return projection.Session{}, apperr.Validation("invalid password", map[string]string{"password": "must be at most 72 bytes"})
	}
	if err != nil {
		return projection.Session{}, storeErr(err, "user not found")
	}
	u := model.User{
		ID:       uid,
		Username: strings.TrimSpace(in.Username),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
	}
	return s.issue(ctx, u)
}

// Login verifies the password and returns a fresh session.  Unknown users,
// wrong passwords and deactivated accounts are indistinguishable.
func (s *AuthService) Login(ctx context.Context, username, password string) (projection.Session, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return projection.Session{}, invalidCredentials()
	}
	if err != nil {
		return projection.Session{}, storeErr(err, "user not found")
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, password) {
		return projection.Session{}, invalidCredentials()
	}
	return s.issue(ctx, u)
}

// Logout revokes a refresh token.  An unknown, expired or already revoked
// token is a client error.
func (s *AuthService) Logout(ctx context.Context, refresh string) error {
	if strings.TrimSpace(refresh) == "" {
		return invalidToken()
	}
	err := s.tokens.RevokeByHash(ctx, utils.HashRefreshRaw(refresh))
	if errors.Is(err, repository.ErrNotFound) {
		return invalidToken()
	}
	return storeErr(err, "token not found")
}

// Refresh issues a new access token for a valid refresh token.  The
// refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refresh string) (projection.AccessGrant, error) {
	if strings.TrimSpace(refresh) == "" {
		return projection.AccessGrant{}, invalidToken()
	}
	uid, err := s.tokens.ValidateRefresh(ctx, utils.HashRefreshRaw(refresh))
	if errors.Is(err, repository.ErrNotFound) {
		return projection.AccessGrant{}, apperr.Unauthenticated("token is invalid or expired")
	}
	if err != nil {
		return projection.AccessGrant{}, storeErr(err, "token not found")
	}
	access, err := utils.NewAccessToken(s.cfg.Secret, uid, s.cfg.AccessTTLMin)
	if err != nil {
		return projection.AccessGrant{}, apperr.Unavailable(err)
	}
	return projection.AccessGrant{AccessToken: access.Token}, nil
}

// Requester loads the user behind an authenticated request.  A token whose
// user no longer exists is treated as unauthenticated.
func (s *AuthService) Requester(ctx context.Context, userID uint64) (*model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Unauthenticated("user not found")
	}
	if err != nil {
		return nil, storeErr(err, "user not found")
	}
	return &u, nil
}

func (s *AuthService) issue(ctx context.Context, u model.User) (projection.Session, error) {
	access, err := utils.NewAccessToken(s.cfg.Secret, u.ID, s.cfg.AccessTTLMin)
	if err != nil {
		return projection.Session{}, apperr.Unavailable(err)
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays)
	if err != nil {
		return projection.Session{}, apperr.Unavailable(err)
	}
	if err := s.tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return projection.Session{}, storeErr(err, "user not found")
	}
	return projection.NewSession(u, access.Token, refresh.Raw), nil
}

func invalidCredentials() error {
	return apperr.Unauthenticated("no active account found with the given credentials")
}

func invalidToken() error {
	return apperr.Validation("token is invalid or expired", nil)
}
