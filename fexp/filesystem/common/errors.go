package common

import "errors"

// Errors returned by the indexer. Callers wrap them with fmt.Errorf and %w.
var (
	ErrPathEmpty      = errors.New("path cannot be empty")
	ErrNotDirectory   = errors.New("path is not a directory")
	ErrBuildCancelled = errors.New("index build cancelled")
)
