// Package redisstore keeps refresh tokens in Redis
// It is an alternative to the postgres RefreshTokenRepo when sessions should live outside the main database
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nkiryanov/postboard/internal/apperrors"
	"github.com/nkiryanov/postboard/internal/models"
)

const defaultPrefix = "postboard"

// Value stored under the token key
type record struct {
	UserID    uuid.UUID `json:"uid"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RefreshTokenRepo struct {
	client redis.UniversalClient
	prefix string
}

func NewRefreshTokenRepo(client redis.UniversalClient, prefix string) *RefreshTokenRepo {
	if prefix == "" {
		prefix = defaultPrefix
	}

	return &RefreshTokenRepo{client: client, prefix: prefix}
}

func (r *RefreshTokenRepo) key(token string) string {
	return r.prefix + ":refresh:" + token
}

// Save token with SETNX, so existing token is never overwritten
// Key expires together with the token; already expired token is kept until it is used
func (r *RefreshTokenRepo) Create(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error) {
	data, err := json.Marshal(record{UserID: token.UserID, CreatedAt: token.CreatedAt, ExpiresAt: token.ExpiresAt})
	if err != nil {
		return token, fmt.Errorf("encode error: %w", err)
	}

	ttl := time.Until(token.ExpiresAt)
	if ttl < time.Second {
		ttl = 0
	}

	ok, err := r.client.SetNX(ctx, r.key(token.Token), data, ttl).Result()
	switch {
	case err != nil:
		return token, fmt.Errorf("redis error: %w", err)
	case !ok:
		return token, fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenExists)
	default:
		return token, nil
	}
}

func (r *RefreshTokenRepo) Get(ctx context.Context, token string) (models.RefreshToken, error) {
	data, err := r.client.Get(ctx, r.key(token)).Bytes()
	return decode(token, data, err)
}

func (r *RefreshTokenRepo) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

// GETDEL is atomic: only one of concurrent callers receives the value
func (r *RefreshTokenRepo) Take(ctx context.Context, token string) (models.RefreshToken, error) {
	data, err := r.client.GetDel(ctx, r.key(token)).Bytes()
	return decode(token, data, err)
}

func decode(token string, data []byte, err error) (models.RefreshToken, error) {
	switch {
	case errors.Is(err, redis.Nil):
		return models.RefreshToken{}, fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenNotFound)
	case err != nil:
		return models.RefreshToken{}, fmt.Errorf("redis error: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.RefreshToken{}, fmt.Errorf("decode error: %w", err)
	}

	return models.RefreshToken{
		Token:     token,
		UserID:    rec.UserID,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}
