package server

import (
	"net/http"

	"github.com/Heidric/shop-admin/internal/lib/jwt"
	"github.com/go-chi/chi"
)

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := jwt.Claims(r.Context())
		if !ok {
			UnauthorizedError(w, "UNAUTHORIZED")
			return
		}
		if !claims.IsAdmin() {
			ForbiddenError(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireSelfOrAdmin guards routes whose {id} names a user.
func (s *Server) requireSelfOrAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := jwt.Claims(r.Context())
		if !ok {
			UnauthorizedError(w, "UNAUTHORIZED")
			return
		}
		if !claims.IsAdmin() && claims.ID != chi.URLParam(r, "id") {
			ForbiddenError(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
