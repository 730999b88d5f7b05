package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/nkiryanov/postboard/internal/apperrors"
)

const MaxTitleLength = 255

var v = validator.New()

// Normalize email: trim spaces and lower the case, so Foo@Example.com and foo@example.com is the same user
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func Email(email string) error {
	if err := v.Var(email, "required,email,max=254"); err != nil {
		return fmt.Errorf("email is not valid: %w", apperrors.ErrInvalidInput)
	}
	return nil
}

func Password(password string) error {
	if password == "" {
		return fmt.Errorf("password is required: %w", apperrors.ErrInvalidInput)
	}
	return nil
}

func PostContent(title string, content string) error {
	switch {
	case strings.TrimSpace(title) == "":
		return fmt.Errorf("title is required: %w", apperrors.ErrInvalidInput)
	case utf8.RuneCountInString(title) > MaxTitleLength:
		return fmt.Errorf("title is longer than %d: %w", MaxTitleLength, apperrors.ErrInvalidInput)
	case strings.TrimSpace(content) == "":
		return fmt.Errorf("content is required: %w", apperrors.ErrInvalidInput)
	default:
		return nil
	}
}
