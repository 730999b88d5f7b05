package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nkiryanov/postboard/internal/apperrors"
	"github.com/nkiryanov/postboard/internal/models"
	"github.com/nkiryanov/postboard/internal/repository"
	"github.com/nkiryanov/postboard/internal/service/credential"
	"github.com/nkiryanov/postboard/internal/service/validate"
)

type UserService struct {
	hasher  credential.Hasher
	storage repository.Storage
}

func NewService(hasher credential.Hasher, storage repository.Storage) *UserService {
	if hasher == nil {
		hasher = credential.DefaultHasher
	}

	return &UserService{
		hasher:  hasher,
		storage: storage,
	}
}

// Create user with normalized email
// Email must be unique, apperrors.ErrEmailAlreadyExists returned otherwise
func (s *UserService) CreateUser(ctx context.Context, email string, password string) (models.User, error) {
	var user models.User

	email = validate.NormalizeEmail(email)
	if err := errors.Join(validate.Email(email), validate.Password(password)); err != nil {
		return user, err
	}

	err := s.storage.InTx(ctx, func(storage repository.Storage) error {
		_, err := storage.User().GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			return apperrors.ErrEmailAlreadyExists
		case !errors.Is(err, apperrors.ErrUserNotFound):
			return err
		}

		hash, err := s.hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("can't use this as password, Err: %w", err)
		}

		user, err = storage.User().CreateUser(ctx, email, hash)
		return err
	})
	if err != nil {
		return user, fmt.Errorf("can't create user. Err: %w", err)
	}

	return user, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.storage.User().GetUserByEmail(ctx, validate.NormalizeEmail(email))
}

func (s *UserService) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.storage.User().GetUserByID(ctx, userID)
}

func (s *UserService) TouchLastLogin(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.storage.User().TouchLastLogin(ctx, userID)
}
