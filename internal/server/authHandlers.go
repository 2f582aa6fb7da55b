package server

import (
	"errors"
	"net/http"

	"github.com/Heidric/shop-admin/internal/model"
	"github.com/Heidric/shop-admin/internal/services/auth"
)

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var dto model.RegisterDTO
	if !s.decode(w, r, &dto) {
		return
	}

	res, err := s.auth.Register(ctx, dto)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailNotUnique):
			ConflictError(w, ErrEmailNotUnique)
		case errors.Is(err, auth.ErrUsernameNotUnique):
			ConflictError(w, ErrUsernameNotUnique)
		default:
			InternalError(w)
		}
		log.Error().Err(err).Msg("Error register")
		return
	}

	respond(w, http.StatusCreated, res)
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var dto model.LoginDTO
	if !s.decode(w, r, &dto) {
		return
	}

	res, err := s.auth.Login(ctx, dto.Email, dto.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			UnauthorizedError(w, ErrInvalidCredentials)
		default:
			InternalError(w)
		}
		log.Error().Err(err).Msg("Error login")
		return
	}

	respond(w, http.StatusOK, res)
}

func (s *Server) refreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var dto model.RefreshTokenDTO
	if !s.decode(w, r, &dto) {
		return
	}

	res, err := s.auth.RefreshToken(ctx, dto.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenNotFound), errors.Is(err, auth.ErrUserNotFound):
			UnauthorizedError(w, ErrTokenInvalid)
		default:
			InternalError(w)
		}
		log.Error().Err(err).Msg("Error refreshing token")
		return
	}

	respond(w, http.StatusOK, res)
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context()); err != nil {
		log.Error().Err(err).Msg("Error logout")
		InternalError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
