package analysis

import "errors"

// Query errors.
var (
	// ErrEmptyKeyword is returned when a keyword is empty or only whitespace.
	// An empty keyword would match every record, so it is rejected outright.
	ErrEmptyKeyword = errors.New("keyword must not be empty")

	// ErrEmptyResult is returned when no record matches the keyword, so there
	// is no distribution to compute.
	ErrEmptyResult = errors.New("no records match the keyword")

	// ErrInvalidSentiment is returned for a label outside {-1, 0, 1, 2}.
	ErrInvalidSentiment = errors.New("invalid sentiment label")
)
