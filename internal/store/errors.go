package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrAmbiguous is returned when a lookup expected to match one row matched several.
var ErrAmbiguous = errors.New("ambiguous match")
