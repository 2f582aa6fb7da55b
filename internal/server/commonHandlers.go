package server

import (
	"encoding/json"
	"net/http"

	"github.com/Heidric/shop-admin/internal/model"
)

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	NotFoundError(w)
}

// decode reads the body into dto and runs its validation, writing the
// error response itself. It returns false when the handler should stop.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dto model.Validator) bool {
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		log.Error().Err(err).Msg("Error parsing request body")
		ParsingError(w)
		return false
	}

	if errs := dto.Validate(s.rules); len(errs) > 0 {
		log.Debug().Msgf("Error validating request body: %v", errs)
		ValidationError(w, errs)
		return false
	}
	return true
}

func respond(w http.ResponseWriter, status int, res interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
	}
}
