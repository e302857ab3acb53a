package model

import "errors"

// ErrNotFound is returned by repositories when no matching row exists.
var ErrNotFound = errors.New("not found")
