package models

import "strconv"

// SentimentLabel classifies a record's stance toward the dataset topic.
type SentimentLabel int

// Sentiment label constants
const (
	SentimentAnti    SentimentLabel = -1
	SentimentNeutral SentimentLabel = 0
	SentimentPro     SentimentLabel = 1
	SentimentNews    SentimentLabel = 2
)

// Labels returns every sentiment label in display order.
func Labels() []SentimentLabel {
	return []SentimentLabel{SentimentAnti, SentimentNeutral, SentimentPro, SentimentNews}
}

// Valid reports whether l is one of the four known labels.
func (l SentimentLabel) Valid() bool {
	return l >= SentimentAnti && l <= SentimentNews
}

// String returns the numeric form used in the CSV and the UI buttons.
func (l SentimentLabel) String() string {
	return strconv.Itoa(int(l))
}

// Name returns the short human-readable name of the label.
func (l SentimentLabel) Name() string {
	switch l {
	case SentimentAnti:
		return "Anti"
	case SentimentNeutral:
		return "Neutral"
	case SentimentPro:
		return "Pro"
	case SentimentNews:
		return "News"
	default:
		return "Unknown"
	}
}

// Record is a single labelled post. Records are never modified after load.
type Record struct {
	Text      string         `json:"text"`
	Sentiment SentimentLabel `json:"sentiment"`
}
