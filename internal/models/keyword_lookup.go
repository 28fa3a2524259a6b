package models

import "time"

// Keyword lookup outcome constants
const (
	OutcomeMatched  = "matched"
	OutcomeNoMatch  = "no_match"
	OutcomeRejected = "rejected"
)

// KeywordLookup represents a per-keyword query count by outcome.
type KeywordLookup struct {
	Keyword    string
	Outcome    string
	Count      int64
	LastSeenAt time.Time
}
