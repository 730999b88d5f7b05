package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/nkiryanov/postboard/internal/handlers/middleware"
	"github.com/nkiryanov/postboard/internal/logger"
	"github.com/nkiryanov/postboard/internal/models"
	"github.com/nkiryanov/postboard/internal/service/post"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

type RouterConfig struct {
	// Origins allowed to make cross origin requests
	// CORS headers are not set at all if empty
	CORSOrigins []string
}

func NewRouter(
	cfg RouterConfig,
	authService authService,
	postService postService,
	logger logger.Logger,
) http.Handler {
	users := http.NewServeMux()
	users.Handle("POST /signup", handleSignup(authService, logger))
	users.Handle("POST /login", handleLogin(authService, logger))
	users.Handle("POST /refresh", handleRefresh(authService, logger))
	users.Handle("POST /logout", handleLogout(authService, logger))

	posts := http.NewServeMux()
	posts.Handle("POST /posts", handleCreatePost(postService, logger))
	posts.Handle("GET /posts", handleListPosts(postService, logger))
	posts.Handle("GET /posts/{id}", handleGetPost(postService, logger))
	posts.Handle("PUT /posts/{id}", handleUpdatePost(postService, logger))
	posts.Handle("DELETE /posts/{id}", handleDeletePost(postService, logger))

	postsPolicy := middleware.Policy{
		http.MethodPost:   middleware.Authenticated,
		http.MethodPut:    middleware.Authenticated,
		http.MethodDelete: middleware.Authenticated,
	}
	guardedPosts := middleware.Guard(authService, postsPolicy, logger)(posts)

	root := http.NewServeMux()
	root.Handle("/users/", http.StripPrefix("/users", users))
	root.Handle("/posts", guardedPosts)
	root.Handle("/posts/", guardedPosts)

	mds := []func(http.Handler) http.Handler{
		middleware.Recoverer(logger),
		middleware.LoggerMiddleware(logger),
	}
	if len(cfg.CORSOrigins) > 0 {
		mds = append(mds, cors.New(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		}).Handler)
	}

	return chain(root, mds...)
}

type authService interface {
	// Register user with email and password
	// Has to return apperrors.ErrEmailAlreadyExists if user already exists
	Signup(ctx context.Context, email string, password string) (models.User, error)

	// Login user with email and password
	// Has to return apperrors.ErrUserNotFound or apperrors.ErrWrongPassword
	Login(ctx context.Context, email string, password string) (models.TokenPair, error)

	// Rotate refresh token
	// If token expired: has to return apperrors.ErrRefreshTokenExpired
	// If token unknown or used: has to return apperrors.ErrTokenInvalid
	Refresh(ctx context.Context, refresh string) (models.TokenPair, error)

	// Revoke refresh token
	Logout(ctx context.Context, refresh string) error

	// Get request and return user if it authenticated or error
	UserFromRequest(ctx context.Context, r *http.Request) (models.User, error)
}

type postService interface {
	CreatePost(ctx context.Context, author models.User, title string, content string) (models.Post, error)
	ListPosts(ctx context.Context, opts post.ListOpts) (models.PostPage, error)
	GetPost(ctx context.Context, postID uuid.UUID) (models.Post, error)
	UpdatePost(ctx context.Context, postID uuid.UUID, title string, content string) (models.Post, error)
	DeletePost(ctx context.Context, postID uuid.UUID) error
}
