package domain

import "errors"

// Error kinds shared by every layer. Concrete errors wrap one of these so the
// transport layer can classify them with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrState      = errors.New("invalid state")
	ErrStorage    = errors.New("storage operation failed")
	ErrUpstream   = errors.New("upstream recognition failure")
)
