package tokenmanager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/postboard/internal/apperrors"
	"github.com/nkiryanov/postboard/internal/models"
	"github.com/nkiryanov/postboard/internal/repository"
)

const (
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultSigningMethod   = "HS256"
	defaultRefreshTokenTTL = 24 * time.Hour
)

// Token manager with sensible default
type Config struct {
	// Secret key to sign tokens
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm: HS256, HS384 or HS512
	// If not set than default is used
	Alg string

	// Access and refresh token lifetimes
	// If not set than default is used
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type TokenManager struct {
	codec Codec

	// Access and refresh token lifetimes
	accessTTL  time.Duration
	refreshTTL time.Duration

	// Refresh token repo
	refreshRepo repository.RefreshTokenRepo
}

func New(cfg Config, refreshRepo repository.RefreshTokenRepo) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}

	alg, ok := jwt.GetSigningMethod(cfg.Alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("signing method %q is not supported, use one of HS256, HS384, HS512", cfg.Alg)
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	return &TokenManager{
		codec:       Codec{key: []byte(cfg.SecretKey), alg: alg},
		accessTTL:   cfg.AccessTTL,
		refreshTTL:  cfg.RefreshTTL,
		refreshRepo: refreshRepo,
	}, nil
}

// Issue new access and refresh tokens. Refresh token is saved to the repo
func (m *TokenManager) GeneratePair(ctx context.Context, userID uuid.UUID) (models.TokenPair, error) {
	var pair models.TokenPair

	access, err := m.codec.Issue(userID, models.TokenKindAccess, m.accessTTL)
	if err != nil {
		return pair, err
	}

	refresh, err := m.codec.Issue(userID, models.TokenKindRefresh, m.refreshTTL)
	if err != nil {
		return pair, err
	}

	_, err = m.refreshRepo.Create(ctx, models.RefreshToken{
		Token:     refresh.Value,
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: refresh.ExpiresAt,
	})
	if err != nil {
		return pair, fmt.Errorf("error while saving refresh token. Err: %w", err)
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Use token: remove it from the repo and return if it is still valid
// The token can't be used twice even if it turns out expired or malformed
func (m *TokenManager) UseRefresh(ctx context.Context, refresh string) (models.RefreshToken, error) {
	token, err := m.refreshRepo.Take(ctx, refresh)
	if err != nil {
		return token, fmt.Errorf("error while taking refresh token. Err: %w", err)
	}

	if !token.ExpiresAt.After(time.Now()) {
		return token, fmt.Errorf("refresh token expired at %s: %w", token.ExpiresAt, apperrors.ErrRefreshTokenExpired)
	}

	claims, err := m.codec.Parse(token.Token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return token, fmt.Errorf("%w: %w", apperrors.ErrRefreshTokenExpired, err)
		}
		return token, err
	}

	if claims.Kind != models.TokenKindRefresh || claims.UserID != token.UserID {
		return token, fmt.Errorf("%w: not a refresh token of the user", apperrors.ErrTokenInvalid)
	}

	return token, nil
}

// Revoke refresh token. Unknown token reported as apperrors.ErrRefreshTokenNotFound
func (m *TokenManager) Revoke(ctx context.Context, refresh string) error {
	_, err := m.refreshRepo.Take(ctx, refresh)
	if err != nil {
		return fmt.Errorf("error while revoking refresh token. Err: %w", err)
	}
	return nil
}

// Parse and validate access token
func (m *TokenManager) ParseAccess(ctx context.Context, access string) (userID uuid.UUID, err error) {
	claims, err := m.codec.Parse(access)
	if err != nil {
		return uuid.Nil, err
	}

	if claims.Kind != models.TokenKindAccess {
		return uuid.Nil, fmt.Errorf("%w: %s token used as access", apperrors.ErrTokenInvalid, claims.Kind)
	}

	return claims.UserID, nil
}
