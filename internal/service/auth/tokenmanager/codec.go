package tokenmanager

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/postboard/internal/apperrors"
	"github.com/nkiryanov/postboard/internal/models"
)

type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID        `json:"uid"`
	Kind   models.TokenKind `json:"kind"`
}

// Signs and verifies JWT tokens. Knows nothing about storage
type Codec struct {
	key []byte
	alg jwt.SigningMethod
}

// Issue signed token for the user
// Negative ttl is allowed and produces already expired token
func (c Codec) Issue(userID uuid.UUID, kind models.TokenKind, ttl time.Duration) (models.IssuedToken, error) {
	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(
		c.alg,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			UserID: userID,
			Kind:   kind,
		},
	)

	value, err := token.SignedString(c.key)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing %s token. Err: %w", kind, err)
	}

	return models.IssuedToken{Value: value, ExpiresAt: expiresAt}, nil
}

// Parse and verify token of any kind
// Every failure is reported as apperrors.ErrTokenInvalid
func (c Codec) Parse(value string) (models.TokenClaims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(
		value,
		claims,
		func(t *jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{c.alg.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return models.TokenClaims{}, fmt.Errorf("%w: %w", apperrors.ErrTokenInvalid, err)
	}

	switch claims.Kind {
	case models.TokenKindAccess, models.TokenKindRefresh:
	default:
		return models.TokenClaims{}, fmt.Errorf("%w: unknown token kind %q", apperrors.ErrTokenInvalid, claims.Kind)
	}

	if claims.UserID == uuid.Nil {
		return models.TokenClaims{}, fmt.Errorf("%w: token has no subject", apperrors.ErrTokenInvalid)
	}

	parsed := models.TokenClaims{UserID: claims.UserID, Kind: claims.Kind, ExpiresAt: claims.ExpiresAt.Time}
	if claims.IssuedAt != nil {
		parsed.IssuedAt = claims.IssuedAt.Time
	}

	return parsed, nil
}
