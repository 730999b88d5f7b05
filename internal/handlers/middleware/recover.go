package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/nkiryanov/postboard/internal/handlers/render"
)

// Recoverer turns handler panic into 500 response
func Recoverer(l logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				l.Error("panic while serving request", "panic", rvr, "uri", r.RequestURI, "stack", string(debug.Stack()))
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
