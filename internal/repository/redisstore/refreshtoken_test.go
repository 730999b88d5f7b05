package redisstore

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/postboard/internal/apperrors"
	"github.com/nkiryanov/postboard/internal/models"
)

func newTestRepo(t *testing.T) (*RefreshTokenRepo, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRefreshTokenRepo(client, "test"), mr
}

func Test_RefreshTokenRepo(t *testing.T) {
	t.Parallel()

	now := time.Now().Truncate(time.Second).UTC()
	token := models.RefreshToken{
		Token:     "secret-token",
		UserID:    uuid.New(),
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}

	t.Run("create and get", func(t *testing.T) {
		repo, mr := newTestRepo(t)

		_, err := repo.Create(t.Context(), token)
		require.NoError(t, err)

		got, err := repo.Get(t.Context(), token.Token)
		require.NoError(t, err)
		assert.Equal(t, token.Token, got.Token)
		assert.Equal(t, token.UserID, got.UserID)
		assert.WithinDuration(t, token.CreatedAt, got.CreatedAt, 0)
		assert.WithinDuration(t, token.ExpiresAt, got.ExpiresAt, 0)

		require.True(t, mr.Exists("test:refresh:secret-token"), "key has to be prefixed")
		assert.InDelta(t, time.Hour.Seconds(), mr.TTL("test:refresh:secret-token").Seconds(), 2, "key has to expire with the token")
	})

	t.Run("create duplicate fail", func(t *testing.T) {
		repo, _ := newTestRepo(t)
		_, err := repo.Create(t.Context(), token)
		require.NoError(t, err)

		other := token
		other.UserID = uuid.New()
		_, err = repo.Create(t.Context(), other)

		require.ErrorIs(t, err, apperrors.ErrRefreshTokenExists)

		got, err := repo.Get(t.Context(), token.Token)
		require.NoError(t, err)
		require.Equal(t, token.UserID, got.UserID, "existing token must not be overwritten")
	})

	t.Run("create expired token keeps it without ttl", func(t *testing.T) {
		repo, mr := newTestRepo(t)
		expired := token
		expired.ExpiresAt = now.Add(-time.Hour)

		_, err := repo.Create(t.Context(), expired)
		require.NoError(t, err)

		require.True(t, mr.Exists("test:refresh:secret-token"))
		require.Zero(t, mr.TTL("test:refresh:secret-token"))
	})

	t.Run("get not existed", func(t *testing.T) {
		repo, _ := newTestRepo(t)

		_, err := repo.Get(t.Context(), "unknown")

		require.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		repo, _ := newTestRepo(t)
		_, err := repo.Create(t.Context(), token)
		require.NoError(t, err)

		require.NoError(t, repo.Delete(t.Context(), token.Token))
		require.NoError(t, repo.Delete(t.Context(), token.Token), "second delete is not an error")

		_, err = repo.Get(t.Context(), token.Token)
		require.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
	})

	t.Run("take once", func(t *testing.T) {
		repo, _ := newTestRepo(t)
		_, err := repo.Create(t.Context(), token)
		require.NoError(t, err)

		got, err := repo.Take(t.Context(), token.Token)
		require.NoError(t, err)
		require.Equal(t, token.UserID, got.UserID)

		_, err = repo.Take(t.Context(), token.Token)
		require.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
	})

	t.Run("concurrent take only one wins", func(t *testing.T) {
		repo, _ := newTestRepo(t)
		_, err := repo.Create(t.Context(), token)
		require.NoError(t, err)

		var wins atomic.Int32
		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := repo.Take(t.Context(), token.Token); err == nil {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		require.Equal(t, int32(1), wins.Load())
	})
}
