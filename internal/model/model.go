package model

import "github.com/Heidric/shop-admin/internal/validation"

// Validator is implemented by every request DTO. A nil or empty map means
// the request is valid.
type Validator interface {
	Validate(rules *validation.Engine) map[string]string
}

const (
	ErrEmptyField   = "EMPTY"
	ErrInvalidField = "INVALID_VALUE"
)
