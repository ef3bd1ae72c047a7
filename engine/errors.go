package engine

import "errors"

// ErrNotFound is returned by Store implementations when a record does not
// exist. The scorer maps it to an empty prediction list rather than an error:
// an unknown customer means there is nothing to score.
var ErrNotFound = errors.New("engine: record not found")
