package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/postboard/internal/apperrors"
)

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "a@x.com", NormalizeEmail("  A@X.Com "))
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"valid", "a@x.com", true},
		{"empty", "", false},
		{"no at", "ax.com", false},
		{"no domain", "a@", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Email(tt.email)

			if tt.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, apperrors.ErrInvalidInput)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	require.NoError(t, Password("p1"))
	require.ErrorIs(t, Password(""), apperrors.ErrInvalidInput)
}

func TestPostContent(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
		valid   bool
	}{
		{"valid", "title", "content", true},
		{"max title", strings.Repeat("я", MaxTitleLength), "content", true},
		{"empty title", "", "content", false},
		{"blank title", "   ", "content", false},
		{"too long title", strings.Repeat("a", MaxTitleLength+1), "content", false},
		{"empty content", "title", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PostContent(tt.title, tt.content)

			if tt.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, apperrors.ErrInvalidInput)
			}
		})
	}
}
