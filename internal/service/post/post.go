package post

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/nkiryanov/postboard/internal/models"
	"github.com/nkiryanov/postboard/internal/repository"
	"github.com/nkiryanov/postboard/internal/service/validate"
)

const (
	defaultPageSize    = 10
	defaultMaxPageSize = 100
)

type Config struct {
	// Page size used when client didn't ask for specific one
	PageSize int

	// Upper bound for client requested page size
	MaxPageSize int
}

type ListOpts struct {
	Page     int        // 1-based, values less than 1 mean the first page
	PageSize int        // 0 means default page size
	AuthorID *uuid.UUID // nil means any author
}

type PostService struct {
	pageSize    int
	maxPageSize int

	storage repository.Storage
}

func NewService(cfg Config, storage repository.Storage) *PostService {
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = defaultMaxPageSize
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	cfg.PageSize = min(cfg.PageSize, cfg.MaxPageSize)

	return &PostService{
		pageSize:    cfg.PageSize,
		maxPageSize: cfg.MaxPageSize,
		storage:     storage,
	}
}

func (s *PostService) CreatePost(ctx context.Context, author models.User, title string, content string) (models.Post, error) {
	if err := validate.PostContent(title, content); err != nil {
		return models.Post{}, err
	}

	post, err := s.storage.Post().CreatePost(ctx, models.Post{
		Title:    title,
		Content:  content,
		AuthorID: author.ID,
	})
	if err != nil {
		return post, fmt.Errorf("can't create post. Err: %w", err)
	}

	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, postID uuid.UUID) (models.Post, error) {
	return s.storage.Post().GetPost(ctx, postID)
}

func (s *PostService) UpdatePost(ctx context.Context, postID uuid.UUID, title string, content string) (models.Post, error) {
	if err := validate.PostContent(title, content); err != nil {
		return models.Post{}, err
	}

	return s.storage.Post().UpdatePost(ctx, postID, title, content)
}

func (s *PostService) DeletePost(ctx context.Context, postID uuid.UUID) error {
	return s.storage.Post().DeletePost(ctx, postID)
}

// List posts page by page in creation order
func (s *PostService) ListPosts(ctx context.Context, opts ListOpts) (models.PostPage, error) {
	page := max(opts.Page, 1)

	pageSize := opts.PageSize
	switch {
	case pageSize <= 0:
		pageSize = s.pageSize
	case pageSize > s.maxPageSize:
		pageSize = s.maxPageSize
	}

	// Offset and page*pageSize must fit in int
	page = min(page, math.MaxInt/pageSize)

	posts, total, err := s.storage.Post().ListPosts(ctx, repository.ListPostsOpts{
		AuthorID: opts.AuthorID,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	})
	if err != nil {
		return models.PostPage{}, fmt.Errorf("can't list posts. Err: %w", err)
	}

	return models.PostPage{
		Posts:    posts,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
