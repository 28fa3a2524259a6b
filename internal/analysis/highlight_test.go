package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sentidash/internal/models"
)

func TestHighlight(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		keyword string
		want    string
	}{
		{"single", "Climate change is real", "climate", "**Climate** change is real"},
		{"multiple", "ice, Ice and ICE", "ice", "**ice**, **Ice** and **ICE**"},
		{"inside word", "melting", "elt", "m**elt**ing"},
		{"no match", "nothing here", "ice", "nothing here"},
		{"empty keyword", "nothing here", "", "nothing here"},
		{"non overlapping", "aaaa", "aa", "**aa****aa**"},
		{"unicode", "Émissions en Éire", "é", "**É**missions en **É**ire"},
		{"keyword longer than text", "ice", "icebergs", "ice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Highlight(tt.text, tt.keyword, "**", "**"))
		})
	}
}

func TestSegments(t *testing.T) {
	segs := Segments("Sea ice and sea level", "SEA")
	want := []Segment{
		{Text: "Sea", Match: true},
		{Text: " ice and "},
		{Text: "sea", Match: true},
		{Text: " level"},
	}
	assert.Equal(t, want, segs)
}

func TestSegments_AgreeWithMatching(t *testing.T) {
	records := []models.Record{
		{Text: "İstanbul floods", Sentiment: models.SentimentNews},
		{Text: "istanbul heat", Sentiment: models.SentimentNews},
		{Text: "Straße flooded", Sentiment: models.SentimentPro},
		{Text: "KELVIN scale", Sentiment: models.SentimentNeutral},
		{Text: "Émissions 🔥", Sentiment: models.SentimentAnti},
	}

	for _, keyword := range []string{"i", "istanbul", "İ", "ß", "k", "kelvin", "é", "🔥", "ss"} {
		matched, err := MatchingRecords(records, keyword)
		assert.NoError(t, err)

		inMatches := make(map[string]bool, len(matched))
		for _, r := range matched {
			inMatches[r.Text] = true
		}
		for _, r := range records {
			assert.Equal(t, inMatches[r.Text], hasMatch(Segments(r.Text, keyword)),
				"keyword %q on %q", keyword, r.Text)
		}
	}
}

func hasMatch(segs []Segment) bool {
	for _, s := range segs {
		if s.Match {
			return true
		}
	}
	return false
}
