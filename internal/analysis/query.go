package analysis

import (
	"strings"

	"gonum.org/v1/gonum/floats"

	"sentidash/internal/models"
)

// Distribution is the share of each sentiment label among the records
// matching a keyword. Only labels that occur are present in the maps.
type Distribution struct {
	Total       int
	Counts      map[models.SentimentLabel]int
	Proportions map[models.SentimentLabel]float64
}

// Shares returns one entry per known label in display order, with zero
// counts for labels that do not occur.
func (d Distribution) Shares() []models.SentimentShare {
	labels := models.Labels()
	shares := make([]models.SentimentShare, 0, len(labels))
	for _, l := range labels {
		shares = append(shares, models.SentimentShare{
			Label:      l,
			Name:       l.Name(),
			Count:      d.Counts[l],
			Proportion: d.Proportions[l],
		})
	}
	return shares
}

// MatchingRecords returns the records whose text contains keyword,
// case-insensitively, in original order with duplicate texts collapsed.
func MatchingRecords(records []models.Record, keyword string) ([]models.Record, error) {
	needle, err := needleFor(keyword)
	if err != nil {
		return nil, err
	}
	return dedupe(records, func(r models.Record) bool {
		return containsFold(r.Text, needle)
	}), nil
}

// SentimentDistribution partitions every record containing keyword by its
// label, without collapsing duplicates. It returns ErrEmptyResult when no
// record matches.
func SentimentDistribution(records []models.Record, keyword string) (Distribution, error) {
	needle, err := needleFor(keyword)
	if err != nil {
		return Distribution{}, err
	}

	labels := models.Labels()
	counts := make([]float64, len(labels))
	total := 0
	for _, r := range records {
		if !r.Sentiment.Valid() || !containsFold(r.Text, needle) {
			continue
		}
		counts[int(r.Sentiment-models.SentimentAnti)]++
		total++
	}
	if total == 0 {
		return Distribution{}, ErrEmptyResult
	}

	proportions := make([]float64, len(counts))
	copy(proportions, counts)
	floats.Scale(100/float64(total), proportions)

	d := Distribution{
		Total:       total,
		Counts:      make(map[models.SentimentLabel]int),
		Proportions: make(map[models.SentimentLabel]float64),
	}
	for i, l := range labels {
		if counts[i] == 0 {
			continue
		}
		d.Counts[l] = int(counts[i])
		d.Proportions[l] = proportions[i]
	}
	return d, nil
}

// FilterBySentiment returns the records that contain keyword and carry
// label, with duplicate texts collapsed and original order kept.
func FilterBySentiment(records []models.Record, keyword string, label models.SentimentLabel) ([]models.Record, error) {
	if !label.Valid() {
		return nil, ErrInvalidSentiment
	}
	needle, err := needleFor(keyword)
	if err != nil {
		return nil, err
	}
	return dedupe(records, func(r models.Record) bool {
		return r.Sentiment == label && containsFold(r.Text, needle)
	}), nil
}

// Texts extracts the text of each record.
func Texts(records []models.Record) []string {
	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Text
	}
	return texts
}

func needleFor(keyword string) (string, error) {
	if strings.TrimSpace(keyword) == "" {
		return "", ErrEmptyKeyword
	}
	return keyword, nil
}

func containsFold(text, needle string) bool {
	start, _ := indexFold(text, needle)
	return start >= 0
}

func dedupe(records []models.Record, match func(models.Record) bool) []models.Record {
	seen := make(map[string]struct{})
	out := []models.Record{}
	for _, r := range records {
		if !match(r) {
			continue
		}
		if _, dup := seen[r.Text]; dup {
			continue
		}
		seen[r.Text] = struct{}{}
		out = append(out, r)
	}
	return out
}
