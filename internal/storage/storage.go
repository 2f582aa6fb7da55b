package storage

import "github.com/pkg/errors"

var (
	ErrEntityNotFound = errors.New("entity not found")
	ErrConflict       = errors.New("entity conflicts with an existing one")
)
