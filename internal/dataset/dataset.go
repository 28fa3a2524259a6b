// Package dataset loads the labelled posts the dashboard analyses.
package dataset

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"sentidash/internal/models"
)

// Required CSV columns.
const (
	ColumnMessage   = "message"
	ColumnSentiment = "sentiment"
)

// Load errors. Both are configuration errors and stop startup.
var (
	ErrMissingColumn    = errors.New("required column missing")
	ErrInvalidSentiment = errors.New("invalid sentiment value")
)

// Dataset is an immutable, named set of records.
type Dataset struct {
	// ID identifies the record contents; equal records give equal IDs.
	ID      string
	Source  string
	Records []models.Record
}

// New wraps records in a Dataset and computes its ID.
func New(source string, records []models.Record) *Dataset {
	return &Dataset{
		ID:      fingerprint(records),
		Source:  source,
		Records: records,
	}
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// LoadCSV reads a dataset from a CSV file.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return ReadCSV(f, path)
}

// ReadCSV parses CSV with a header row containing at least the message and
// sentiment columns. Other columns are ignored.
func ReadCSV(r io.Reader, source string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %q (empty file)", ErrMissingColumn, ColumnMessage)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	msgCol, sentCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case ColumnMessage:
			msgCol = i
		case ColumnSentiment:
			sentCol = i
		}
	}
	if msgCol < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, ColumnMessage)
	}
	if sentCol < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, ColumnSentiment)
	}

	var records []models.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if len(row) <= msgCol || len(row) <= sentCol {
			return nil, fmt.Errorf("line %d: %w: expected %d fields, got %d", line, ErrMissingColumn, max(msgCol, sentCol)+1, len(row))
		}

		label, err := ParseSentiment(row[sentCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, models.Record{Text: row[msgCol], Sentiment: label})
	}

	return New(source, records), nil
}

// ParseSentiment parses a label written as an integer, or as a float with no
// fractional part.
func ParseSentiment(s string) (models.SentimentLabel, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidSentiment, s)
		}
		n = int(f)
	}
	label := models.SentimentLabel(n)
	if !label.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSentiment, s)
	}
	return label, nil
}

func fingerprint(records []models.Record) string {
	h := sha256.New()
	for _, r := range records {
		h.Write([]byte(r.Sentiment.String()))
		h.Write([]byte{0})
		h.Write([]byte(r.Text))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
