package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrNoData       = errors.New("no local dataset found")
	ErrAuth         = errors.New("authentication failed")
	ErrTransmission = errors.New("transmission failed")
)
