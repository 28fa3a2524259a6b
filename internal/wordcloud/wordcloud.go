// Package wordcloud turns a frequency table into sized, styled words the
// dashboard lays out as a cloud.
package wordcloud

import (
	"hash/fnv"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"

	"sentidash/internal/analysis"
)

// Defaults match the classic 800x400 cloud of at most 200 words.
const (
	DefaultMaxWords    = 200
	DefaultMinFontSize = 12
	DefaultMaxFontSize = 64
	// Palettes is the number of colour classes words are spread over.
	Palettes = 6
)

// Options controls cloud construction.
type Options struct {
	MaxWords    int
	MinFontSize float64
	MaxFontSize float64
}

func (o Options) withDefaults() Options {
	if o.MaxWords <= 0 {
		o.MaxWords = DefaultMaxWords
	}
	if o.MinFontSize <= 0 {
		o.MinFontSize = DefaultMinFontSize
	}
	if o.MaxFontSize <= o.MinFontSize {
		o.MaxFontSize = math.Max(DefaultMaxFontSize, o.MinFontSize)
	}
	return o
}

// Word is one entry of the cloud.
type Word struct {
	Text  string  `json:"text"`
	Count int     `json:"count"`
	// Weight is Count relative to the most frequent word, in (0, 1].
	Weight float64 `json:"weight"`
	Size   float64 `json:"size"`
	// Palette is a colour class in [0, Palettes).
	Palette int `json:"palette"`
}

// Build picks the most frequent words and sizes them linearly by weight.
// The result is sorted alphabetically so the layout is stable.
func Build(table analysis.FrequencyTable, opts Options) []Word {
	opts = opts.withDefaults()
	top := table.Top(opts.MaxWords)
	if len(top) == 0 {
		return nil
	}

	counts := make([]float64, len(top))
	for i, tc := range top {
		counts[i] = float64(tc.Count)
	}
	weights := slices.Clone(counts)
	floats.Scale(1/floats.Max(counts), weights)

	words := make([]Word, len(top))
	for i, tc := range top {
		w := weights[i]
		words[i] = Word{
			Text:    tc.Token,
			Count:   tc.Count,
			Weight:  w,
			Size:    math.Round(opts.MinFontSize + (opts.MaxFontSize-opts.MinFontSize)*w),
			Palette: palette(tc.Token),
		}
	}

	slices.SortFunc(words, func(a, b Word) int {
		return strings.Compare(a.Text, b.Text)
	})
	return words
}

// palette assigns a stable colour class from the FNV-1a hash of the word.
func palette(s string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return int(h.Sum32() % Palettes)
}
