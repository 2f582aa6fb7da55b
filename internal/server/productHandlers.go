package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Heidric/shop-admin/internal/model"
	"github.com/Heidric/shop-admin/internal/services/product"
	"github.com/go-chi/chi"
)

// parseListQuery reads search, category, page and pageSize.
func parseListQuery(r *http.Request) (model.ProductListQuery, map[string]string) {
	v := r.URL.Query()
	q := model.ProductListQuery{
		Search:   v.Get("search"),
		Category: v.Get("category"),
	}
	errs := map[string]string{}

	for key, dst := range map[string]**int{"page": &q.Page, "pageSize": &q.PageSize} {
		raw := v.Get(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs[key] = model.ErrInvalidField
			continue
		}
		*dst = &n
	}
	return q, errs
}

func (s *Server) productError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, product.ErrProductNotFound):
		EntityNotFoundError(w, ErrProductNotFound)
	default:
		InternalError(w)
	}
	log.Error().Err(err).Msg(msg)
}

func (s *Server) productListHandler(w http.ResponseWriter, r *http.Request) {
	q, errs := parseListQuery(r)
	if len(errs) == 0 {
		errs = q.Validate(s.rules)
	}
	if len(errs) > 0 {
		ValidationError(w, errs)
		return
	}

	res, err := s.product.List(r.Context(), q)
	if err != nil {
		s.productError(w, err, "Error listing products")
		return
	}

	respond(w, http.StatusOK, res)
}

func (s *Server) productGetHandler(w http.ResponseWriter, r *http.Request) {
	res, err := s.product.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.productError(w, err, "Error getting product")
		return
	}

	respond(w, http.StatusOK, res)
}

func (s *Server) productCreateHandler(w http.ResponseWriter, r *http.Request) {
	var dto model.ProductDTO
	if !s.decode(w, r, &dto) {
		return
	}

	res, err := s.product.Create(r.Context(), dto)
	if err != nil {
		s.productError(w, err, "Error creating product")
		return
	}

	respond(w, http.StatusCreated, res)
}

func (s *Server) productUpdateHandler(w http.ResponseWriter, r *http.Request) {
	var dto model.ProductDTO
	if !s.decode(w, r, &dto) {
		return
	}

	res, err := s.product.Update(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		s.productError(w, err, "Error updating product")
		return
	}

	respond(w, http.StatusOK, res)
}

func (s *Server) productDeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.product.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.productError(w, err, "Error deleting product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
