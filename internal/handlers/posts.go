package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/postboard/internal/apperrors"
	"github.com/nkiryanov/postboard/internal/handlers/render"
	"github.com/nkiryanov/postboard/internal/handlers/userctx"
	"github.com/nkiryanov/postboard/internal/logger"
	"github.com/nkiryanov/postboard/internal/models"
	"github.com/nkiryanov/postboard/internal/service/post"
)

type postResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  uuid.UUID `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

func newPostResponse(p models.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt,
	}
}

type postRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

// Malformed id can't match any post
func postIDFromPath(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, apperrors.ErrPostNotFound
	}
	return id, nil
}

func handleCreatePost(s postService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			writeError(w, l, apperrors.ErrUnauthenticated)
			return
		}

		data, err := render.BindAndValidate[postRequest](w, r)
		if err != nil {
			return
		}

		p, err := s.CreatePost(r.Context(), user, data.Title, data.Content)
		if err != nil {
			writeError(w, l, err)
			return
		}

		render.JSONWithStatus(w, newPostResponse(p), http.StatusCreated)
	})
}

func handleListPosts(s postService, l logger.Logger) http.Handler {
	type response struct {
		Count    int            `json:"count"`
		Page     int            `json:"page"`
		PageSize int            `json:"page_size"`
		Next     *string        `json:"next"`
		Previous *string        `json:"previous"`
		Results  []postResponse `json:"results"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		// Not a number means default, the service knows what it is
		page, _ := strconv.Atoi(query.Get("page"))
		pageSize, _ := strconv.Atoi(query.Get("page_size"))

		opts := post.ListOpts{Page: page, PageSize: pageSize}
		if raw := query.Get("author_id"); raw != "" {
			authorID, err := uuid.Parse(raw)
			if err != nil {
				// Nobody has nil id, so the page is empty
				authorID = uuid.Nil
			}
			opts.AuthorID = &authorID
		}

		result, err := s.ListPosts(r.Context(), opts)
		if err != nil {
			writeError(w, l, err)
			return
		}

		resp := response{
			Count:    result.Total,
			Page:     result.Page,
			PageSize: result.PageSize,
			Results:  make([]postResponse, 0, len(result.Posts)),
		}
		for _, p := range result.Posts {
			resp.Results = append(resp.Results, newPostResponse(p))
		}
		if result.Page*result.PageSize < result.Total {
			resp.Next = pageURL(r.URL, result.Page+1)
		}
		if result.Page > 1 {
			resp.Previous = pageURL(r.URL, result.Page-1)
		}

		render.JSON(w, resp)
	})
}

func pageURL(current *url.URL, page int) *string {
	query := current.Query()
	query.Set("page", strconv.Itoa(page))

	link := (&url.URL{Path: current.Path, RawQuery: query.Encode()}).String()
	return &link
}

func handleGetPost(s postService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := postIDFromPath(r)
		if err != nil {
			writeError(w, l, err)
			return
		}

		p, err := s.GetPost(r.Context(), id)
		if err != nil {
			writeError(w, l, err)
			return
		}

		render.JSON(w, newPostResponse(p))
	})
}

func handleUpdatePost(s postService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := postIDFromPath(r)
		if err != nil {
			writeError(w, l, err)
			return
		}

		data, err := render.BindAndValidate[postRequest](w, r)
		if err != nil {
			return
		}

		p, err := s.UpdatePost(r.Context(), id, data.Title, data.Content)
		if err != nil {
			writeError(w, l, err)
			return
		}

		render.JSON(w, newPostResponse(p))
	})
}

func handleDeletePost(s postService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := postIDFromPath(r)
		if err != nil {
			writeError(w, l, err)
			return
		}

		if err := s.DeletePost(r.Context(), id); err != nil {
			writeError(w, l, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
