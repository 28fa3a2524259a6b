package explorer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentidash/internal/analysis"
	"sentidash/internal/cache"
	"sentidash/internal/dataset"
	"sentidash/internal/models"
	"sentidash/internal/testutil"
	"sentidash/internal/wordcloud"
)

func newTestExplorer(t *testing.T) *Explorer {
	t.Helper()
	ds := dataset.New("test", testutil.SampleRecords())
	filter := analysis.NewFilter(analysis.FilterConfig{ExcludedTerms: []string{"climate", "change"}})
	return New(ds, filter, cache.NewFrequencyCache(nil, 0), wordcloud.Options{})
}

func label(l models.SentimentLabel) *models.SentimentLabel {
	return &l
}

func TestOverview(t *testing.T) {
	e := newTestExplorer(t)

	ov, err := e.Overview(context.Background())
	require.NoError(t, err)

	// real x2, don't, care, hoax, arctic, ice, hits, record, low
	assert.Equal(t, 10, ov.TotalTokens)
	assert.Equal(t, 5, ov.Records)
	assert.Equal(t, []string{"change", "climate"}, ov.Excluded)
	require.NotEmpty(t, ov.Cloud)
	for _, w := range ov.Cloud {
		assert.NotEqual(t, "climate", w.Text)
	}

	again, err := e.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ov.Cloud, again.Cloud)
}

func TestExplore_NoQuery(t *testing.T) {
	e := newTestExplorer(t)

	for _, kw := range []string{"", "   "} {
		r, err := e.Explore(context.Background(), kw, nil)
		require.NoError(t, err)
		assert.Equal(t, StateNoQuery, r.State)
		assert.Empty(t, r.Matches)
	}
}

func TestExplore_NoMatches(t *testing.T) {
	e := newTestExplorer(t)

	r, err := e.Explore(context.Background(), "trump", label(models.SentimentPro))
	require.NoError(t, err)
	assert.Equal(t, StateNoMatches, r.State)
	assert.Zero(t, r.Frequency)
	assert.Empty(t, r.Matches)
	assert.Zero(t, r.Distribution.Total)
}

func TestExplore_Matched(t *testing.T) {
	e := newTestExplorer(t)

	r, err := e.Explore(context.Background(), " Climate ", nil)
	require.NoError(t, err)

	assert.Equal(t, StateMatched, r.State)
	assert.Equal(t, "Climate", r.Keyword)
	// Excluded from the table, so the frequency is zero even with matches.
	assert.Zero(t, r.Frequency)
	assert.Equal(t, 3, r.Distribution.Total)
	assert.InDelta(t, 200.0/3, r.Distribution.Proportions[models.SentimentPro], 1e-9)
	assert.Equal(t, []string{"Climate change is real", "Climate change is a hoax"}, analysis.Texts(r.Matches))
	assert.Nil(t, r.Filtered)
	assert.False(t, r.FilteredEmpty())
}

func TestExplore_Frequency(t *testing.T) {
	e := newTestExplorer(t)

	r, err := e.Explore(context.Background(), "REAL", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Frequency)
}

func TestExplore_SelectedSentiment(t *testing.T) {
	e := newTestExplorer(t)

	r, err := e.Explore(context.Background(), "climate", label(models.SentimentPro))
	require.NoError(t, err)
	assert.Equal(t, []string{"Climate change is real"}, analysis.Texts(r.Filtered))
	assert.False(t, r.FilteredEmpty())

	r, err = e.Explore(context.Background(), "climate", label(models.SentimentNews))
	require.NoError(t, err)
	assert.Equal(t, StateMatched, r.State)
	assert.True(t, r.FilteredEmpty())
}

func TestExplore_InvalidKeyword(t *testing.T) {
	e := newTestExplorer(t)

	_, err := e.Explore(context.Background(), strings.Repeat("x", 101), nil)
	assert.True(t, errors.Is(err, ErrInvalidKeyword))
}

func TestPosts(t *testing.T) {
	e := newTestExplorer(t)

	posts, err := e.Posts("hoax", models.SentimentAnti)
	require.NoError(t, err)
	assert.Equal(t, []string{"Climate change is a hoax"}, analysis.Texts(posts))

	_, err = e.Posts("", models.SentimentAnti)
	assert.ErrorIs(t, err, analysis.ErrEmptyKeyword)

	_, err = e.Posts("hoax", models.SentimentLabel(9))
	assert.ErrorIs(t, err, analysis.ErrInvalidSentiment)
}

func TestClearCache(t *testing.T) {
	e := newTestExplorer(t)

	_, err := e.Overview(context.Background())
	require.NoError(t, err)
	require.NoError(t, e.ClearCache())

	ov, err := e.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, ov.TotalTokens)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "no_query", StateNoQuery.String())
	assert.Equal(t, "no_matches", StateNoMatches.String())
	assert.Equal(t, "matched", StateMatched.String())
}
