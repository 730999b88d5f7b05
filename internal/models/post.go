package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID
	Title     string
	Content   string
	AuthorID  uuid.UUID
	CreatedAt time.Time
}

// One page of posts
// Total is the count of all posts matched the filter, not only on this page
type PostPage struct {
	Posts    []Post
	Total    int
	Page     int
	PageSize int
}
