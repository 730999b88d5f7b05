package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/nkiryanov/postboard/internal/apperrors"
	"github.com/nkiryanov/postboard/internal/models"
	"github.com/nkiryanov/postboard/internal/service/credential"
)

const (
	defaultAccessHeaderName = "Authorization"
	defaultAccessAuthScheme = "Bearer"
)

type userService interface {
	CreateUser(ctx context.Context, email string, password string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	TouchLastLogin(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type tokenManager interface {
	// Issue access and refresh tokens and save refresh token
	GeneratePair(ctx context.Context, userID uuid.UUID) (models.TokenPair, error)

	// Remove refresh token from the store and return it if it still valid
	UseRefresh(ctx context.Context, refresh string) (models.RefreshToken, error)

	// Remove refresh token from the store
	Revoke(ctx context.Context, refresh string) error

	// Return user id the access token issued for
	ParseAccess(ctx context.Context, access string) (uuid.UUID, error)
}

type Config struct {
	// Header to read access token from and its auth scheme
	// If not set than default is used
	AccessHeaderName string
	AccessAuthScheme string

	// Hasher to verify user password on login
	Hasher credential.Hasher
}

type AuthService struct {
	accessHeaderName string
	accessAuthScheme string

	hasher credential.Hasher
	tokens tokenManager
	users  userService
}

func NewService(cfg Config, tokens tokenManager, users userService) *AuthService {
	if cfg.AccessHeaderName == "" {
		cfg.AccessHeaderName = defaultAccessHeaderName
	}
	if cfg.AccessAuthScheme == "" {
		cfg.AccessAuthScheme = defaultAccessAuthScheme
	}
	if cfg.Hasher == nil {
		cfg.Hasher = credential.DefaultHasher
	}

	return &AuthService{
		accessHeaderName: cfg.AccessHeaderName,
		accessAuthScheme: cfg.AccessAuthScheme,
		hasher:           cfg.Hasher,
		tokens:           tokens,
		users:            users,
	}
}

// Register new user. User has to login after signup to get tokens
func (s *AuthService) Signup(ctx context.Context, email string, password string) (models.User, error) {
	return s.users.CreateUser(ctx, email, password)
}

// Check user credentials and issue token pair
// Unknown user and wrong password are different errors: apperrors.ErrUserNotFound and apperrors.ErrWrongPassword
func (s *AuthService) Login(ctx context.Context, email string, password string) (models.TokenPair, error) {
	var pair models.TokenPair

	if strings.TrimSpace(email) == "" || password == "" {
		return pair, fmt.Errorf("email and password are required: %w", apperrors.ErrInvalidInput)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return pair, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return pair, apperrors.ErrWrongPassword
	}

	// Failed login must not leave refresh token in the store
	_, err = s.users.TouchLastLogin(ctx, user.ID)
	if err != nil {
		return pair, fmt.Errorf("can't set user last login. Err: %w", err)
	}

	pair, err = s.tokens.GeneratePair(ctx, user.ID)
	if err != nil {
		return pair, fmt.Errorf("token could not generated, sorry. %w", err)
	}

	return pair, nil
}

// Rotate refresh token: old one is revoked and new pair issued for the same user
func (s *AuthService) Refresh(ctx context.Context, refresh string) (models.TokenPair, error) {
	var pair models.TokenPair

	if refresh == "" {
		return pair, apperrors.ErrTokenMissing
	}

	token, err := s.tokens.UseRefresh(ctx, refresh)
	if err != nil {
		return pair, unknownAsInvalid(err)
	}

	pair, err = s.tokens.GeneratePair(ctx, token.UserID)
	if err != nil {
		return pair, fmt.Errorf("token could not generated, sorry. %w", err)
	}

	return pair, nil
}

// Revoke refresh token. The same token can't be revoked twice
func (s *AuthService) Logout(ctx context.Context, refresh string) error {
	if refresh == "" {
		return apperrors.ErrTokenMissing
	}

	return unknownAsInvalid(s.tokens.Revoke(ctx, refresh))
}

// Authenticate request by access token in header
// Missing, invalid or stale credentials reported as apperrors.ErrUnauthenticated
// Storage failures are returned as is
func (s *AuthService) UserFromRequest(ctx context.Context, r *http.Request) (models.User, error) {
	var user models.User

	scheme, access, ok := strings.Cut(r.Header.Get(s.accessHeaderName), " ")
	if !ok || !strings.EqualFold(scheme, s.accessAuthScheme) || access == "" {
		return user, fmt.Errorf("%w: no %s credentials", apperrors.ErrUnauthenticated, s.accessAuthScheme)
	}

	userID, err := s.tokens.ParseAccess(ctx, strings.TrimSpace(access))
	if err != nil {
		return user, fmt.Errorf("%w: %w", apperrors.ErrUnauthenticated, err)
	}

	user, err = s.users.GetUserByID(ctx, userID)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		return user, fmt.Errorf("%w: %w", apperrors.ErrUnauthenticated, err)
	case err != nil:
		return user, fmt.Errorf("can't get user by token. Err: %w", err)
	}

	return user, nil
}

func unknownAsInvalid(err error) error {
	if errors.Is(err, apperrors.ErrRefreshTokenNotFound) {
		return fmt.Errorf("%w: %w", apperrors.ErrTokenInvalid, err)
	}
	return err
}
