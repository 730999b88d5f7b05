package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/nkiryanov/postboard/internal/models"
)

// Storage groups repositories that share one connection (or one transaction)
type Storage interface {
	User() UserRepo
	Post() PostRepo
	Refresh() RefreshTokenRepo

	// Run fn in transaction. Commit if fn returns nil, rollback otherwise
	InTx(ctx context.Context, fn func(Storage) error) error
}

// User repository interface
type UserRepo interface {
	// Create user
	// If user with the email exists already has to return error apperrors.ErrEmailAlreadyExists
	CreateUser(ctx context.Context, email string, passwordHash string) (models.User, error)

	// Get user by it's id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	// Set user last login time to now
	TouchLastLogin(ctx context.Context, userID uuid.UUID) (models.User, error)
}

// RefreshToken repository interface
type RefreshTokenRepo interface {
	// Save token
	// Must never overwrite existing token: return apperrors.ErrRefreshTokenExists instead
	Create(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error)

	// Return the token if it exists, expired tokens included
	// If token not exists must return apperrors.ErrRefreshTokenNotFound
	Get(ctx context.Context, token string) (models.RefreshToken, error)

	// Delete token. It's ok to delete not existed token
	Delete(ctx context.Context, token string) error

	// Delete token and return it as single atomic operation
	// Only one of concurrent callers may get the token, others get apperrors.ErrRefreshTokenNotFound
	Take(ctx context.Context, token string) (models.RefreshToken, error)
}

type ListPostsOpts struct {
	AuthorID *uuid.UUID // nil means posts of all authors
	Limit    int
	Offset   int
}

// Post repository interface
// Has to return apperrors.ErrPostNotFound if post not exists
type PostRepo interface {
	CreatePost(ctx context.Context, post models.Post) (models.Post, error)
	GetPost(ctx context.Context, postID uuid.UUID) (models.Post, error)
	UpdatePost(ctx context.Context, postID uuid.UUID, title string, content string) (models.Post, error)
	DeletePost(ctx context.Context, postID uuid.UUID) error

	// List posts in creation order and count of all posts matched to filter
	ListPosts(ctx context.Context, opts ListPostsOpts) (posts []models.Post, total int, err error)
}
