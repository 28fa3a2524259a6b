package db

import "errors"

// Domain-level database error sentinels.
var (
	// Dataset errors
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrEmptyDataset    = errors.New("dataset has no records")
)
