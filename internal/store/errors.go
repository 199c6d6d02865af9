package store

import "errors"

// ErrNotFound is returned when no stored data matches a lookup
var ErrNotFound = errors.New("not found")
