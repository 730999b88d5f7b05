package user

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nkiryanov/postboard/internal/apperrors"
	"github.com/nkiryanov/postboard/internal/repository/postgres"
	"github.com/nkiryanov/postboard/internal/service/credential"
	"github.com/nkiryanov/postboard/internal/testutil"
)

func TestUser(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	hasher := credential.BcryptHasher{Cost: bcrypt.MinCost}

	inTx := func(t *testing.T, fn func(s *UserService)) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			fn(NewService(hasher, postgres.NewStorage(tx)))
		})
	}

	t.Run("CreateUser", func(t *testing.T) {
		t.Run("create ok", func(t *testing.T) {
			inTx(t, func(s *UserService) {
				user, err := s.CreateUser(t.Context(), "  Test@Example.com ", "password123")

				require.NoError(t, err, "creating new user should be ok")
				require.NotEqual(t, uuid.Nil, user.ID, "user ID should not be empty")
				require.Equal(t, "test@example.com", user.Email, "email has to be normalized")
				require.NotEqual(t, "password123", user.PasswordHash, "password should be hashed")
				require.True(t, hasher.Verify("password123", user.PasswordHash))
				require.NotZero(t, user.CreatedAt, "created at should be set")
				require.Nil(t, user.LastLogin, "new user never logged in")
			})
		})

		tests := []struct {
			name     string
			email    string
			password string
		}{
			{"empty password", "test@example.com", ""},
			{"empty email", "", "password123"},
			{"malformed email", "not-an-email", "password123"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				inTx(t, func(s *UserService) {
					_, err := s.CreateUser(t.Context(), tt.email, tt.password)

					require.ErrorIs(t, err, apperrors.ErrInvalidInput)
				})
			})
		}

		t.Run("create duplicate user fail", func(t *testing.T) {
			inTx(t, func(s *UserService) {
				_, err := s.CreateUser(t.Context(), "test@example.com", "password123")
				require.NoError(t, err, "first user creation should succeed")

				_, err = s.CreateUser(t.Context(), "TEST@example.com", "different_password")

				require.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
			})
		})
	})

	t.Run("GetUser", func(t *testing.T) {
		inTx(t, func(s *UserService) {
			created, err := s.CreateUser(t.Context(), "test@example.com", "password123")
			require.NoError(t, err)

			byEmail, err := s.GetUserByEmail(t.Context(), " Test@Example.COM")
			require.NoError(t, err)
			require.Equal(t, created.ID, byEmail.ID)

			byID, err := s.GetUserByID(t.Context(), created.ID)
			require.NoError(t, err)
			require.Equal(t, created.Email, byID.Email)

			_, err = s.GetUserByID(t.Context(), uuid.New())
			require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("TouchLastLogin", func(t *testing.T) {
		inTx(t, func(s *UserService) {
			created, err := s.CreateUser(t.Context(), "test@example.com", "password123")
			require.NoError(t, err)

			touched, err := s.TouchLastLogin(t.Context(), created.ID)

			require.NoError(t, err)
			require.NotNil(t, touched.LastLogin)
		})
	})
}
