package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/postboard/internal/handlers/render"
	"github.com/nkiryanov/postboard/internal/logger"
	"github.com/nkiryanov/postboard/internal/models"
)

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func newTokenPairResponse(pair models.TokenPair) tokenPairResponse {
	return tokenPairResponse{AccessToken: pair.Access.Value, RefreshToken: pair.Refresh.Value}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func handleSignup(s authService, l logger.Logger) http.Handler {
	type request struct {
		// Format is checked by the service after normalization
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	type response struct {
		ID        uuid.UUID  `json:"id"`
		Email     string     `json:"email"`
		CreatedAt time.Time  `json:"created_at"`
		LastLogin *time.Time `json:"last_login"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, err := s.Signup(r.Context(), data.Email, data.Password)
		if err != nil {
			writeError(w, l, err)
			return
		}

		render.JSONWithStatus(w, response{
			ID:        user.ID,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
			LastLogin: user.LastLogin,
		}, http.StatusCreated)
	})
}

func handleLogin(s authService, l logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		pair, err := s.Login(r.Context(), data.Email, data.Password)
		if err != nil {
			writeError(w, l, err)
			return
		}

		render.JSON(w, newTokenPairResponse(pair))
	})
}

func handleRefresh(s authService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[refreshRequest](w, r)
		if err != nil {
			return
		}

		pair, err := s.Refresh(r.Context(), data.RefreshToken)
		if err != nil {
			writeError(w, l, err)
			return
		}

		render.JSON(w, newTokenPairResponse(pair))
	})
}

func handleLogout(s authService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"msg"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[refreshRequest](w, r)
		if err != nil {
			return
		}

		if err := s.Logout(r.Context(), data.RefreshToken); err != nil {
			writeError(w, l, err)
			return
		}

		render.JSON(w, response{Message: "Logged out"})
	})
}
