package server

import (
	"net/http"

	"github.com/Heidric/shop-admin/internal/lib/jwt"
	"github.com/Heidric/shop-admin/internal/services/product"
)

// productEventsWSHandler streams product.created|updated|deleted events.
func (s *Server) productEventsWSHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwt.Claims(r.Context())
	if !ok {
		UnauthorizedError(w, "UNAUTHORIZED")
		return
	}

	if err := s.wsHub.Serve(w, r, product.EventsRoom, claims.ID); err != nil {
		log.Warn().Err(err).Str("user", claims.ID).Msg("websocket upgrade failed")
	}
}
