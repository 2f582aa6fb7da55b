package server

import (
	"errors"
	"net/http"

	"github.com/Heidric/shop-admin/internal/lib/jwt"
	"github.com/Heidric/shop-admin/internal/model"
	"github.com/Heidric/shop-admin/internal/services/auth"
	"github.com/Heidric/shop-admin/internal/services/user"
	"github.com/go-chi/chi"
)

func (s *Server) userError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		EntityNotFoundError(w, ErrUserNotFound)
	case errors.Is(err, auth.ErrEmailNotUnique):
		ConflictError(w, ErrEmailNotUnique)
	case errors.Is(err, auth.ErrUsernameNotUnique):
		ConflictError(w, ErrUsernameNotUnique)
	case errors.Is(err, user.ErrLastAdmin):
		LogicError(w, ErrLastAdmin)
	default:
		InternalError(w)
	}
	log.Error().Err(err).Msg(msg)
}

func (s *Server) userListHandler(w http.ResponseWriter, r *http.Request) {
	res, err := s.user.List(r.Context())
	if err != nil {
		s.userError(w, err, "Error listing users")
		return
	}

	respond(w, http.StatusOK, res)
}

func (s *Server) userGetHandler(w http.ResponseWriter, r *http.Request) {
	res, err := s.user.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.userError(w, err, "Error getting user")
		return
	}

	respond(w, http.StatusOK, res)
}

// userUpdateHandler lets users edit themselves; only admins change roles.
func (s *Server) userUpdateHandler(w http.ResponseWriter, r *http.Request) {
	var dto model.UpdateUserDTO
	if !s.decode(w, r, &dto) {
		return
	}

	claims, _ := jwt.Claims(r.Context())
	res, err := s.user.Update(r.Context(), chi.URLParam(r, "id"), dto, claims.IsAdmin())
	if err != nil {
		s.userError(w, err, "Error updating user")
		return
	}

	respond(w, http.StatusOK, res)
}

func (s *Server) userDeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.user.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.userError(w, err, "Error deleting user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
