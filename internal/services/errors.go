package services

import "errors"

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("todo not found")
	ErrStore      = errors.New("store failure")
)
