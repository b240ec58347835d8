package domain

import "errors"

// ErrNotFound is returned by update and delete operations whose target row
// does not exist. Lookups return (nil, nil) instead.
var ErrNotFound = errors.New("record not found")
