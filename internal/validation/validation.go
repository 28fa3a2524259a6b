package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"sentidash/internal/models"
)

// MaxKeywordLength bounds keyword queries, in runes.
const MaxKeywordLength = 100

// NormalizeKeyword trims surrounding whitespace from a user keyword.
// Matching stays case-insensitive, so casing is kept for display.
func NormalizeKeyword(keyword string) string {
	return strings.TrimSpace(keyword)
}

// LookupKey folds a keyword to the form lookups are counted under, so "ICE"
// and "ice" share one row.
func LookupKey(keyword string) string {
	return strings.ToLower(NormalizeKeyword(keyword))
}

// ValidateKeyword checks a normalized keyword. Empty keywords are rejected
// because they would match every record.
func ValidateKeyword(keyword string) (bool, string) {
	if keyword == "" {
		return false, "Please enter a word to see sentiment results."
	}
	if utf8.RuneCountInString(keyword) > MaxKeywordLength {
		return false, "Keyword must be at most 100 characters"
	}
	if !utf8.ValidString(keyword) {
		return false, "Keyword must be valid UTF-8"
	}
	for _, r := range keyword {
		if unicode.IsControl(r) {
			return false, "Keyword must not contain control characters"
		}
	}
	return true, ""
}

// ParseSentiment parses a sentiment selector value. An empty value means no
// selection and returns nil.
func ParseSentiment(value string) (*models.SentimentLabel, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, true
	}
	for _, l := range models.Labels() {
		if l.String() == value {
			label := l
			return &label, true
		}
	}
	return nil, false
}
