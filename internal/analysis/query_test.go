package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"sentidash/internal/models"
)

func exampleRecords() []models.Record {
	return []models.Record{
		{Text: "Climate change is real", Sentiment: models.SentimentPro},
		{Text: "I don't care", Sentiment: models.SentimentNeutral},
		{Text: "Climate change is a hoax", Sentiment: models.SentimentAnti},
	}
}

func TestAggregate_Example(t *testing.T) {
	f := NewFilter(FilterConfig{ExcludedTerms: []string{"climate", "change"}})
	table := Aggregate(exampleRecords(), f)

	assert.Equal(t, FrequencyTable{"real": 1, "don't": 1, "care": 1, "hoax": 1}, table)
	assert.Zero(t, table.Count("climate"))
	assert.Zero(t, table.Count("change"))
	assert.Equal(t, 1, table.Count(" HOAX "))
}

func TestAggregate_TotalEqualsSurvivingTokens(t *testing.T) {
	f := NewFilter(FilterConfig{ExcludedTerms: []string{"climate"}})
	records := []models.Record{
		{Text: "Climate is warming warming fast", Sentiment: models.SentimentPro},
		{Text: "ice ice baby https://t.co/x !", Sentiment: models.SentimentNews},
		{Text: "", Sentiment: models.SentimentNeutral},
	}

	surviving := 0
	for _, r := range records {
		surviving += len(f.Tokenize(r.Text))
	}

	table := Aggregate(records, f)
	assert.Equal(t, surviving, table.Total())
	for tok, n := range table {
		assert.Positive(t, n, "zero count stored for %q", tok)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	f := NewFilter(FilterConfig{ExcludedTerms: []string{"climate", "change"}})
	assert.Equal(t, Aggregate(exampleRecords(), f), Aggregate(exampleRecords(), f))
}

func TestFrequencyTable_Top(t *testing.T) {
	table := FrequencyTable{"ice": 3, "arctic": 3, "melt": 5, "sea": 1}

	assert.Equal(t, []models.TokenCount{
		{Token: "melt", Count: 5},
		{Token: "arctic", Count: 3},
	}, table.Top(2))
	assert.Len(t, table.Top(0), 4)
	assert.Len(t, table.Top(10), 4)
}

func TestMatchingRecords(t *testing.T) {
	records := append(exampleRecords(),
		models.Record{Text: "Climate change is real", Sentiment: models.SentimentNews},
	)

	t.Run("case insensitive with original order", func(t *testing.T) {
		got, err := MatchingRecords(records, "CLIMATE")
		require.NoError(t, err)
		assert.Equal(t, []string{"Climate change is real", "Climate change is a hoax"}, Texts(got))
	})

	t.Run("no match is empty", func(t *testing.T) {
		got, err := MatchingRecords(records, "trump")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("substring match", func(t *testing.T) {
		got, err := MatchingRecords(records, "n't")
		require.NoError(t, err)
		assert.Equal(t, []string{"I don't care"}, Texts(got))
	})

	t.Run("empty keyword rejected", func(t *testing.T) {
		for _, kw := range []string{"", "   "} {
			_, err := MatchingRecords(records, kw)
			assert.ErrorIs(t, err, ErrEmptyKeyword)
		}
	})
}

func TestSentimentDistribution(t *testing.T) {
	t.Run("example split", func(t *testing.T) {
		d, err := SentimentDistribution(exampleRecords(), "climate")
		require.NoError(t, err)
		assert.Equal(t, 2, d.Total)
		assert.Equal(t, map[models.SentimentLabel]float64{
			models.SentimentPro:  50.0,
			models.SentimentAnti: 50.0,
		}, d.Proportions)
	})

	t.Run("no match signals empty result", func(t *testing.T) {
		_, err := SentimentDistribution(exampleRecords(), "trump")
		assert.True(t, errors.Is(err, ErrEmptyResult))
	})

	t.Run("duplicates counted", func(t *testing.T) {
		records := []models.Record{
			{Text: "ice melts", Sentiment: models.SentimentPro},
			{Text: "ice melts", Sentiment: models.SentimentPro},
			{Text: "ice is fine", Sentiment: models.SentimentAnti},
		}
		d, err := SentimentDistribution(records, "ice")
		require.NoError(t, err)
		assert.Equal(t, 3, d.Total)
		assert.Equal(t, 2, d.Counts[models.SentimentPro])
		assert.InDelta(t, 200.0/3, d.Proportions[models.SentimentPro], 1e-9)
	})

	t.Run("proportions sum to one hundred", func(t *testing.T) {
		var records []models.Record
		for i := 0; i < 97; i++ {
			records = append(records, models.Record{
				Text:      "sea level",
				Sentiment: models.Labels()[i%4],
			})
		}
		d, err := SentimentDistribution(records, "sea")
		require.NoError(t, err)

		values := make([]float64, 0, len(d.Proportions))
		for _, p := range d.Proportions {
			values = append(values, p)
		}
		assert.LessOrEqual(t, math.Abs(floats.Sum(values)-100), 1e-6)
	})

	t.Run("shares cover every label", func(t *testing.T) {
		d, err := SentimentDistribution(exampleRecords(), "climate")
		require.NoError(t, err)
		shares := d.Shares()
		require.Len(t, shares, 4)
		assert.Equal(t, models.SentimentAnti, shares[0].Label)
		assert.Equal(t, "Anti", shares[0].Name)
		assert.Zero(t, shares[1].Count)
		assert.Equal(t, 50.0, shares[2].Proportion)
	})

	t.Run("empty keyword rejected", func(t *testing.T) {
		_, err := SentimentDistribution(exampleRecords(), "")
		assert.ErrorIs(t, err, ErrEmptyKeyword)
	})
}

func TestFilterBySentiment(t *testing.T) {
	records := []models.Record{
		{Text: "Ice is melting", Sentiment: models.SentimentPro},
		{Text: "ice is fine", Sentiment: models.SentimentAnti},
		{Text: "Ice is melting", Sentiment: models.SentimentPro},
		{Text: "More ice news", Sentiment: models.SentimentNews},
		{Text: "Sea ice shrinks", Sentiment: models.SentimentPro},
	}

	got, err := FilterBySentiment(records, "ICE", models.SentimentPro)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ice is melting", "Sea ice shrinks"}, Texts(got))

	got, err = FilterBySentiment(records, "ice", models.SentimentNeutral)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = FilterBySentiment(records, "ice", models.SentimentLabel(5))
	assert.ErrorIs(t, err, ErrInvalidSentiment)

	_, err = FilterBySentiment(records, " ", models.SentimentPro)
	assert.ErrorIs(t, err, ErrEmptyKeyword)
}

func TestResultsNeverRepeatText(t *testing.T) {
	records := []models.Record{
		{Text: "a warm day", Sentiment: models.SentimentPro},
		{Text: "a warm day", Sentiment: models.SentimentAnti},
		{Text: "warm again", Sentiment: models.SentimentPro},
		{Text: "warm again", Sentiment: models.SentimentPro},
	}

	assertUnique := func(t *testing.T, rs []models.Record) {
		t.Helper()
		seen := map[string]bool{}
		for _, r := range rs {
			assert.False(t, seen[r.Text], "duplicate %q", r.Text)
			seen[r.Text] = true
		}
	}

	matches, err := MatchingRecords(records, "warm")
	require.NoError(t, err)
	assertUnique(t, matches)
	assert.Len(t, matches, 2)

	for _, l := range models.Labels() {
		filtered, err := FilterBySentiment(records, "warm", l)
		require.NoError(t, err)
		assertUnique(t, filtered)
	}
}
