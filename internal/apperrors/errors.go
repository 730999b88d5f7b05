package apperrors

import (
	"errors"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("password mismatch")
	ErrUnauthenticated    = errors.New("unauthenticated")

	ErrTokenMissing         = errors.New("token is not provided")
	ErrTokenInvalid         = errors.New("token is invalid")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenExists   = errors.New("refresh token already exists")
	ErrRefreshTokenExpired  = errors.New("refresh token is expired")

	ErrPostNotFound = errors.New("post not found")
)
