package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentidash/internal/models"
)

func TestReadCSV(t *testing.T) {
	input := "sentiment,message,tweetid\n" +
		"1,Climate change is real,1\n" +
		"0,\"I don't care, really\",2\n" +
		"-1,Climate change is a hoax,3\n" +
		"2.0,Arctic ice hits record low,4\n"

	ds, err := ReadCSV(strings.NewReader(input), "test")
	require.NoError(t, err)

	want := []models.Record{
		{Text: "Climate change is real", Sentiment: models.SentimentPro},
		{Text: "I don't care, really", Sentiment: models.SentimentNeutral},
		{Text: "Climate change is a hoax", Sentiment: models.SentimentAnti},
		{Text: "Arctic ice hits record low", Sentiment: models.SentimentNews},
	}
	assert.Equal(t, want, ds.Records)
	assert.Equal(t, len(want), ds.Len())
	assert.Equal(t, "test", ds.Source)
}

func TestReadCSV_HeaderVariants(t *testing.T) {
	input := "\uFEFF Message ,SENTIMENT\nhello,1\n"
	ds, err := ReadCSV(strings.NewReader(input), "bom")
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, "hello", ds.Records[0].Text)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty file", "", ErrMissingColumn},
		{"missing message", "sentiment,text\n1,hello\n", ErrMissingColumn},
		{"missing sentiment", "message\nhello\n", ErrMissingColumn},
		{"short row", "message,sentiment\nhello\n", ErrMissingColumn},
		{"out of range", "message,sentiment\nhello,3\n", ErrInvalidSentiment},
		{"not a number", "message,sentiment\nhello,pro\n", ErrInvalidSentiment},
		{"fractional", "message,sentiment\nhello,0.5\n", ErrInvalidSentiment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input), "bad")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReadCSV_ErrorReportsLine(t *testing.T) {
	input := "message,sentiment\nfine,1\nbroken,9\n"
	_, err := ReadCSV(strings.NewReader(input), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.csv")
	require.NoError(t, os.WriteFile(path, []byte("message,sentiment\nice melts,1\n"), 0o600))

	ds, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, path, ds.Source)
	assert.Equal(t, 1, ds.Len())

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestNew_IDTracksContents(t *testing.T) {
	a := New("a", []models.Record{{Text: "x", Sentiment: models.SentimentPro}})
	b := New("b", []models.Record{{Text: "x", Sentiment: models.SentimentPro}})
	c := New("a", []models.Record{{Text: "x", Sentiment: models.SentimentAnti}})

	assert.Equal(t, a.ID, b.ID, "same records must give the same ID")
	assert.NotEqual(t, a.ID, c.ID, "different records must give different IDs")
}
