// Package analysis holds the text analytics behind the dashboard: the
// tokenizer and stop-word filter, the word-frequency table and the keyword
// queries over the loaded records. Everything here is pure and synchronous.
package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultURLPrefixes are dropped when a FilterConfig leaves URLPrefixes nil.
var DefaultURLPrefixes = []string{"https:"}

// FilterConfig configures a Filter.
type FilterConfig struct {
	// ExcludedTerms are dataset topic words dropped on exact match.
	ExcludedTerms []string
	// ExtraStopWords extend the stop word source (for example "rt").
	ExtraStopWords []string
	// URLPrefixes drop any token that starts with one of them.
	URLPrefixes []string
	// StopWords defaults to BuiltinStopWords.
	StopWords StopWordSource
}

// Filter tokenizes text and drops low-value tokens.
type Filter struct {
	excluded    map[string]struct{}
	extra       map[string]struct{}
	urlPrefixes []string
	stop        StopWordSource
	fingerprint string
}

// NewFilter builds a Filter. Terms are lowercased; blank entries are ignored.
func NewFilter(cfg FilterConfig) *Filter {
	f := &Filter{
		excluded:    toSet(cfg.ExcludedTerms),
		extra:       toSet(cfg.ExtraStopWords),
		urlPrefixes: normalize(cfg.URLPrefixes),
		stop:        cfg.StopWords,
	}
	if cfg.URLPrefixes == nil {
		f.urlPrefixes = slices.Clone(DefaultURLPrefixes)
	}
	if f.stop == nil {
		f.stop = BuiltinStopWords{}
	}
	f.fingerprint = f.computeFingerprint()
	return f
}

// TokenizeAndFilter tokenizes text with the builtin stop words, the default
// URL prefixes and the given excluded terms.
func TokenizeAndFilter(text string, excludedTerms []string) []string {
	return NewFilter(FilterConfig{ExcludedTerms: excludedTerms}).Tokenize(text)
}

// Tokenize lowercases text, splits it on whitespace and returns the tokens
// that survive the filter, in input order.
func (f *Filter) Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := fields[:0]
	for _, tok := range fields {
		if f.Keep(tok) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Keep reports whether an already lowercased token survives the filter.
func (f *Filter) Keep(token string) bool {
	if token == "" || isPunctuation(token) {
		return false
	}
	for _, p := range f.urlPrefixes {
		if strings.HasPrefix(token, p) {
			return false
		}
	}
	if _, ok := f.excluded[token]; ok {
		return false
	}
	if _, ok := f.extra[token]; ok {
		return false
	}
	return !f.stop.IsStopWord(token)
}

// ExcludedTerms returns the excluded terms in sorted order.
func (f *Filter) ExcludedTerms() []string {
	return sortedKeys(f.excluded)
}

// Fingerprint identifies the filter configuration. Two filters with the same
// fingerprint produce the same tokens for every input.
func (f *Filter) Fingerprint() string {
	return f.fingerprint
}

func (f *Filter) computeFingerprint() string {
	h := sha256.New()
	write := func(section string, values []string) {
		h.Write([]byte(section))
		for _, v := range values {
			h.Write([]byte{0})
			h.Write([]byte(v))
		}
		h.Write([]byte{1})
	}
	prefixes := slices.Clone(f.urlPrefixes)
	slices.Sort(prefixes)
	write("stop:"+f.stop.Name(), nil)
	write("excluded", sortedKeys(f.excluded))
	write("extra", sortedKeys(f.extra))
	write("url", prefixes)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// isPunctuation reports whether every rune of s is punctuation or one of the
// ASCII symbols such as $, + or |. Emoji are symbols too but are kept.
func isPunctuation(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !(r < utf8.RuneSelf && unicode.IsSymbol(r)) {
			return false
		}
	}
	return true
}

func normalize(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range normalize(values) {
		set[v] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
