package handlers

import (
	"errors"
	"net/http"

	"github.com/nkiryanov/postboard/internal/apperrors"
	"github.com/nkiryanov/postboard/internal/handlers/render"
	"github.com/nkiryanov/postboard/internal/logger"
)

type errorResponse struct {
	err     error
	code    int
	message string
}

// Checked in order: first match wins
// Wrapped errors often match several entries, so more specific go first
var errorResponses = []errorResponse{
	{apperrors.ErrUnauthenticated, http.StatusUnauthorized, "Unauthorized"},
	{apperrors.ErrTokenMissing, http.StatusBadRequest, "Token is not provided"},
	{apperrors.ErrRefreshTokenExpired, http.StatusUnauthorized, "Refresh token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, "Invalid token"},
	{apperrors.ErrUserNotFound, http.StatusUnauthorized, "No such user"},
	{apperrors.ErrWrongPassword, http.StatusUnauthorized, "Password mismatch"},
	{apperrors.ErrEmailAlreadyExists, http.StatusBadRequest, "User with this email already exists"},
	{apperrors.ErrInvalidInput, http.StatusBadRequest, "Invalid input"},
	{apperrors.ErrPostNotFound, http.StatusNotFound, "Post not found"},
}

// Render service error. Unknown errors are logged and hidden behind 500
func writeError(w http.ResponseWriter, l logger.Logger, err error) {
	for _, resp := range errorResponses {
		if errors.Is(err, resp.err) {
			render.ServiceError(w, resp.message, resp.code)
			return
		}
	}

	l.Error("unexpected error while serving request", "error", err)
	render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
}
