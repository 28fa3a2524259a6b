package analysis

import (
	"cmp"
	"slices"
	"strings"

	"sentidash/internal/models"
)

// FrequencyTable maps a token to its number of occurrences. Absent tokens
// have a count of zero; zero counts are never stored.
type FrequencyTable map[string]int

// Aggregate tokenizes every record with f and counts the surviving tokens.
func Aggregate(records []models.Record, f *Filter) FrequencyTable {
	table := make(FrequencyTable)
	for _, r := range records {
		for _, tok := range f.Tokenize(r.Text) {
			table[tok]++
		}
	}
	return table
}

// Total returns the number of surviving token occurrences.
func (t FrequencyTable) Total() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}

// Count returns the frequency of token, matched case-insensitively.
func (t FrequencyTable) Count(token string) int {
	return t[strings.ToLower(strings.TrimSpace(token))]
}

// Top returns the n most frequent tokens, ties broken alphabetically.
// A non-positive n returns every token.
func (t FrequencyTable) Top(n int) []models.TokenCount {
	counts := make([]models.TokenCount, 0, len(t))
	for tok, c := range t {
		counts = append(counts, models.TokenCount{Token: tok, Count: c})
	}
	slices.SortFunc(counts, func(a, b models.TokenCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Token, b.Token)
	})
	if n > 0 && n < len(counts) {
		counts = counts[:n]
	}
	return counts
}
