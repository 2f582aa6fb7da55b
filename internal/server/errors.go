package server

import (
	"encoding/json"
	"net/http"
)

const (
	ErrTokenInvalid       = "TOKEN_INVALID"
	ErrUserNotFound       = "USER_NOT_FOUND"
	ErrEmailNotUnique     = "EMAIL_NOT_UNIQUE"
	ErrUsernameNotUnique  = "USERNAME_NOT_UNIQUE"
	ErrProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrFormNotFound       = "FORM_NOT_FOUND"
	ErrFieldNotFound      = "FIELD_NOT_FOUND"
	ErrLastAdmin          = "LAST_ADMIN"
	ErrInvalidCredentials = "INVALID_CREDENTIALS"
)

type CommonError struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

type Validation struct {
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail"`
	Code   string            `json:"code"`
	Errors map[string]string `json:"errors"`
}

func writeProblem(w http.ResponseWriter, res interface{}, status int) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(res)
}

func ParsingError(w http.ResponseWriter) {
	writeProblem(w, CommonError{
		Title:  "Parsing error occurred",
		Status: http.StatusBadRequest,
		Detail: "Parsing error",
		Code:   "PARSING_ERROR",
	}, http.StatusBadRequest)
}

// ValidationError carries one message per failing field.
func ValidationError(w http.ResponseWriter, err map[string]string) {
	writeProblem(w, Validation{
		Title:  "One or more model validation errors occurred",
		Status: http.StatusUnprocessableEntity,
		Detail: "See the errors property for details",
		Code:   "VALIDATION_ERROR",
		Errors: err,
	}, http.StatusUnprocessableEntity)
}

func LogicError(w http.ResponseWriter, code string) {
	writeProblem(w, CommonError{
		Title:  "Logic error occurred",
		Status: http.StatusBadRequest,
		Detail: "Logic error",
		Code:   code,
	}, http.StatusBadRequest)
}

func ConflictError(w http.ResponseWriter, code string) {
	writeProblem(w, CommonError{
		Title:  "Conflict error",
		Status: http.StatusConflict,
		Detail: "Conflict error",
		Code:   code,
	}, http.StatusConflict)
}

func UnauthorizedError(w http.ResponseWriter, code string) {
	writeProblem(w, CommonError{
		Title:  "Unauthorized",
		Status: http.StatusUnauthorized,
		Detail: "Unauthorized",
		Code:   code,
	}, http.StatusUnauthorized)
}

func ForbiddenError(w http.ResponseWriter) {
	writeProblem(w, CommonError{
		Title:  "Forbidden",
		Status: http.StatusForbidden,
		Detail: "Forbidden",
		Code:   "FORBIDDEN",
	}, http.StatusForbidden)
}

// EntityNotFoundError is for known routes addressing a missing record.
func EntityNotFoundError(w http.ResponseWriter, code string) {
	writeProblem(w, CommonError{
		Title:  "Entity not found",
		Status: http.StatusNotFound,
		Detail: "Not found",
		Code:   code,
	}, http.StatusNotFound)
}

func NotFoundError(w http.ResponseWriter) {
	writeProblem(w, CommonError{
		Title:  "Endpoint not found",
		Status: http.StatusNotFound,
		Detail: "Not found",
		Code:   "ENDPOINT_NOT_FOUND",
	}, http.StatusNotFound)
}

func InternalError(w http.ResponseWriter) {
	writeProblem(w, CommonError{
		Title:  "Resource temporarily unavailable",
		Status: http.StatusInternalServerError,
		Detail: "Resource temporarily unavailable",
		Code:   "UNKNOWN_ERROR",
	}, http.StatusInternalServerError)
}

func BadRequestError(w http.ResponseWriter) {
	writeProblem(w, CommonError{
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
		Detail: "Bad request",
		Code:   "BAD_REQUEST",
	}, http.StatusBadRequest)
}
