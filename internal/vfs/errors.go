package vfs

import "errors"

// ErrInvalidPath is matched by errors returned for names resolving outside of a Root
var ErrInvalidPath = errors.New("path resolves outside of the served root")

// ErrNotFile is returned when opening something that is not a regular file
var ErrNotFile = errors.New("path needs to be a regular file")
