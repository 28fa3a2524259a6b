package api

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"sentidash/internal/analysis"
	"sentidash/internal/explorer"
	"sentidash/internal/metrics"
	"sentidash/internal/models"
	"sentidash/internal/validation"
)

const (
	defaultTopTokens = 20
	maxFrequencies   = 1000
)

// Handler serves the JSON API over an explorer.
type Handler struct {
	explorer *explorer.Explorer
}

// NewHandler creates a new API handler.
func NewHandler(e *explorer.Explorer) *Handler {
	return &Handler{explorer: e}
}

// Overview returns dataset totals and the top tokens.
func (h *Handler) Overview(c fiber.Ctx) error {
	ov, err := h.explorer.Overview(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to build overview")
	}
	table, err := h.explorer.Frequencies(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to build overview")
	}

	return jsonSuccess(c, models.OverviewResponse{
		DatasetID:   ov.DatasetID,
		Records:     ov.Records,
		TotalTokens: ov.TotalTokens,
		Excluded:    ov.Excluded,
		TopTokens:   table.Top(defaultTopTokens),
	})
}

// Frequencies returns the most frequent tokens, up to ?limit= (default 50).
func (h *Handler) Frequencies(c fiber.Ctx) error {
	limit := 50
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return jsonError(c, fiber.StatusBadRequest, "limit must be a positive integer")
		}
		limit = min(n, maxFrequencies)
	}

	table, err := h.explorer.Frequencies(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to compute frequencies")
	}

	return jsonSuccess(c, models.FrequenciesResponse{
		TotalTokens: table.Total(),
		Tokens:      table.Top(limit),
	})
}

// Keyword returns the frequency, distribution and matching posts of a keyword.
// A keyword without matches is reported with state "no_matches" and a null
// distribution.
func (h *Handler) Keyword(c fiber.Ctx) error {
	keyword, err := keywordParam(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	report, err := h.explorer.Explore(c.Context(), keyword, nil)
	if err != nil {
		if errors.Is(err, explorer.ErrInvalidKeyword) {
			metrics.RecordKeywordLookup("", models.OutcomeRejected)
			return jsonError(c, fiber.StatusBadRequest, "invalid keyword")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to explore keyword")
	}

	resp := models.KeywordResponse{
		Keyword:   report.Keyword,
		State:     report.State.String(),
		Frequency: report.Frequency,
		Posts:     analysis.Texts(report.Matches),
	}
	lookupKey := validation.LookupKey(report.Keyword)
	if report.State == explorer.StateMatched {
		metrics.RecordKeywordLookup(lookupKey, models.OutcomeMatched)
		resp.MatchCount = report.Distribution.Total
		resp.Distribution = report.Distribution.Shares()
	} else {
		metrics.RecordKeywordLookup(lookupKey, models.OutcomeNoMatch)
	}
	return jsonSuccess(c, resp)
}

// Posts returns the deduplicated posts containing a keyword with the
// sentiment given in ?sentiment=.
func (h *Handler) Posts(c fiber.Ctx) error {
	keyword, err := keywordParam(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	label, ok := validation.ParseSentiment(c.Query("sentiment"))
	if !ok || label == nil {
		return jsonError(c, fiber.StatusBadRequest, "sentiment must be one of -1, 0, 1, 2")
	}

	posts, err := h.explorer.Posts(keyword, *label)
	if err != nil {
		if errors.Is(err, explorer.ErrInvalidKeyword) || errors.Is(err, analysis.ErrEmptyKeyword) {
			return jsonError(c, fiber.StatusBadRequest, "invalid keyword")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to filter posts")
	}

	return jsonSuccess(c, models.PostsResponse{
		Keyword:   validation.NormalizeKeyword(keyword),
		Sentiment: *label,
		Posts:     analysis.Texts(posts),
	})
}

// ClearCache drops memoized frequency tables.
func (h *Handler) ClearCache(c fiber.Ctx) error {
	if err := h.explorer.ClearCache(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to clear cache")
	}
	return jsonSuccess(c, fiber.Map{"cleared": true})
}

func keywordParam(c fiber.Ctx) (string, error) {
	keyword, err := url.PathUnescape(c.Params("keyword"))
	if err != nil {
		return "", errors.New("malformed keyword")
	}
	if validation.NormalizeKeyword(keyword) == "" {
		return "", errors.New("keyword must not be empty")
	}
	return keyword, nil
}
