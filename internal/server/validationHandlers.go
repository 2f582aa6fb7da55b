package server

import (
	"encoding/json"
	"net/http"

	"github.com/Heidric/shop-admin/internal/validation"
	"github.com/go-chi/chi"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors validation.Errors `json:"errors,omitempty"`
}

type RulesetResponse struct {
	validation.Ruleset
	Categories  []string `json:"categories"`
	MaxPrice    int      `json:"maxPrice"`
	MaxQuantity int      `json:"maxQuantity"`
}

type formCheck func(e *validation.Engine, dec *json.Decoder) (validation.Errors, error)

var formChecks = map[string]formCheck{
	"product": func(e *validation.Engine, dec *json.Decoder) (validation.Errors, error) {
		var f validation.ProductForm
		if err := dec.Decode(&f); err != nil {
			return nil, err
		}
		return e.ProductForm(f), nil
	},
	"register": func(e *validation.Engine, dec *json.Decoder) (validation.Errors, error) {
		var f validation.RegistrationForm
		if err := dec.Decode(&f); err != nil {
			return nil, err
		}
		return e.RegistrationForm(f), nil
	},
	"login": func(e *validation.Engine, dec *json.Decoder) (validation.Errors, error) {
		var f validation.LoginForm
		if err := dec.Decode(&f); err != nil {
			return nil, err
		}
		return e.LoginForm(f), nil
	},
}

func hasField(form, field string) bool {
	for _, f := range validation.Fields[form] {
		if f == field {
			return true
		}
	}
	return false
}

// validateFormHandler is a dry run: invalid input is a 200 with errors, so
// clients can check a single field on blur with ?field=.
func (s *Server) validateFormHandler(w http.ResponseWriter, r *http.Request) {
	form := chi.URLParam(r, "form")
	check, ok := formChecks[form]
	if !ok {
		EntityNotFoundError(w, ErrFormNotFound)
		return
	}

	field := r.URL.Query().Get("field")
	if field != "" && !hasField(form, field) {
		EntityNotFoundError(w, ErrFieldNotFound)
		return
	}

	errs, err := check(s.rules, json.NewDecoder(r.Body))
	if err != nil {
		log.Debug().Err(err).Str("form", form).Msg("Error parsing form")
		ParsingError(w)
		return
	}

	if field != "" {
		if msg, ok := errs[field]; ok {
			errs = validation.Errors{field: msg}
		} else {
			errs = nil
		}
	}

	respond(w, http.StatusOK, ValidationResult{Valid: len(errs) == 0, Errors: errs})
}

func (s *Server) rulesetHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, RulesetResponse{
		Ruleset:     s.rules.Ruleset(),
		Categories:  validation.Categories,
		MaxPrice:    validation.MaxPrice,
		MaxQuantity: validation.MaxQuantity,
	})
}
