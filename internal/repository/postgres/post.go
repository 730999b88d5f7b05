package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/postboard/internal/apperrors"
	"github.com/nkiryanov/postboard/internal/models"
	"github.com/nkiryanov/postboard/internal/repository"
)

type PostRepo struct {
	DB DBTX
}

const postColumns = `id, title, content, author_id, created_at`

// clock_timestamp() instead of now(): posts created in one transaction still get different times
const createPost = `-- name: CreatePost
INSERT INTO posts (id, title, content, author_id, created_at)
VALUES ($1, $2, $3, $4, clock_timestamp())
RETURNING ` + postColumns

func (r *PostRepo) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, createPost, post.ID, post.Title, post.Content, post.AuthorID)
	created, err := pgx.CollectOneRow(rows, rowToPost)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const getPost = `-- name: GetPost
SELECT ` + postColumns + ` FROM posts
WHERE id = $1
`

func (r *PostRepo) GetPost(ctx context.Context, postID uuid.UUID) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, getPost, postID)
	return collectPost(rows)
}

const updatePost = `-- name: UpdatePost
UPDATE posts
SET title = $2, content = $3
WHERE id = $1
RETURNING ` + postColumns

func (r *PostRepo) UpdatePost(ctx context.Context, postID uuid.UUID, title string, content string) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, updatePost, postID, title, content)
	return collectPost(rows)
}

const deletePost = `-- name: DeletePost
DELETE FROM posts
WHERE id = $1
`

func (r *PostRepo) DeletePost(ctx context.Context, postID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deletePost, postID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}

	return nil
}

const countPosts = `-- name: CountPosts
SELECT count(*) FROM posts
WHERE ($1::uuid IS NULL OR author_id = $1)
`

const listPosts = `-- name: ListPosts
SELECT ` + postColumns + ` FROM posts
WHERE ($1::uuid IS NULL OR author_id = $1)
ORDER BY created_at, id
LIMIT $2 OFFSET $3
`

func (r *PostRepo) ListPosts(ctx context.Context, opts repository.ListPostsOpts) ([]models.Post, int, error) {
	var total int
	err := r.DB.QueryRow(ctx, countPosts, opts.AuthorID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	// Nothing to select, save one query
	if total <= opts.Offset {
		return []models.Post{}, total, nil
	}

	rows, _ := r.DB.Query(ctx, listPosts, opts.AuthorID, opts.Limit, opts.Offset)
	posts, err := pgx.CollectRows(rows, rowToPost)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return posts, total, nil
}

func collectPost(rows pgx.Rows) (models.Post, error) {
	post, err := pgx.CollectOneRow(rows, rowToPost)

	switch {
	case err == nil:
		return post, nil
	case errors.Is(err, pgx.ErrNoRows):
		return post, apperrors.ErrPostNotFound
	default:
		return post, fmt.Errorf("db error: %w", err)
	}
}

func rowToPost(row pgx.CollectableRow) (models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.CreatedAt)
	return p, err
}
