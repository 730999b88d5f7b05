package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/nkiryanov/postboard/internal/apperrors"
	"github.com/nkiryanov/postboard/internal/handlers/render"
	"github.com/nkiryanov/postboard/internal/handlers/userctx"
	"github.com/nkiryanov/postboard/internal/models"
)

type Permission int

const (
	AllowAny Permission = iota
	Authenticated
)

// Access policy by HTTP method. Methods not listed are allowed to anyone
type Policy map[string]Permission

func (p Policy) permission(method string) Permission {
	if perm, ok := p[method]; ok {
		return perm
	}
	return AllowAny
}

type authService interface {
	UserFromRequest(ctx context.Context, r *http.Request) (models.User, error)
}

// Guard checks request against the policy
// Authenticated user is put to request context, see userctx.FromContext
// Errors other than apperrors.ErrUnauthenticated are logged and rendered as 500
func Guard(as authService, policy Policy, l logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if policy.permission(r.Method) == AllowAny {
				next.ServeHTTP(w, r)
				return
			}

			user, err := as.UserFromRequest(r.Context(), r)
			switch {
			case errors.Is(err, apperrors.ErrUnauthenticated):
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			case err != nil:
				l.Error("can't authenticate request", "uri", r.RequestURI, "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(userctx.New(r.Context(), user)))
		})
	}
}
