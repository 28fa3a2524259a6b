package handlers

import (
	"errors"
	"log/slog"
	"net/url"

	"github.com/gofiber/fiber/v3"

	"sentidash/internal/analysis"
	"sentidash/internal/config"
	"sentidash/internal/explorer"
	"sentidash/internal/metrics"
	"sentidash/internal/models"
	"sentidash/internal/validation"
)

// DashboardHandler serves the single-page dashboard.
type DashboardHandler struct {
	explorer *explorer.Explorer
	cfg      *config.Config
	settings *config.YAMLConfig
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(e *explorer.Explorer, cfg *config.Config, settings *config.YAMLConfig) *DashboardHandler {
	return &DashboardHandler{explorer: e, cfg: cfg, settings: settings}
}

// postView is a post split into highlighted and plain runs.
type postView struct {
	Segments []analysis.Segment
}

// buttonView is one sentiment filter button.
type buttonView struct {
	Value  string
	Name   string
	Active bool
}

// keywordView is the template model of the keyword section.
type keywordView struct {
	State         string
	Keyword       string
	Error         string
	Frequency     string
	MatchCount    int
	Shares        []models.SentimentShare
	Matches       []postView
	Buttons       []buttonView
	Selected      string
	SelectedName  string
	Filtered      []postView
	FilteredEmpty bool
}

// Index renders the full dashboard.
func (h *DashboardHandler) Index(c fiber.Ctx) error {
	overview, err := h.explorer.Overview(c.Context())
	if err != nil {
		return err
	}

	kw, err := h.keywordSection(c, c.Query("q"))
	if err != nil {
		return err
	}

	return c.Render("index", MergeBranding(fiber.Map{
		"Title":       "Dashboard",
		"User":        c.Locals("user"),
		"TotalTokens": formatCount(overview.TotalTokens),
		"Records":     formatCount(overview.Records),
		"Topic":       h.settings.Analysis.Topic,
		"Cloud":       overview.Cloud,
		"Legend":      h.settings.Legend(),
		"Keyword":     kw,
	}, h.cfg))
}

// Explore renders only the keyword section, for HTMX swaps. The browser
// history gets the dashboard URL, and a request that is not from HTMX is
// redirected there so a reload shows the full page.
func (h *DashboardHandler) Explore(c fiber.Ctx) error {
	q := c.Query("q")
	target := dashboardURL(validation.NormalizeKeyword(q))
	if !isHTMX(c) {
		return c.Redirect().Status(fiber.StatusSeeOther).To(target)
	}
	c.Set("HX-Push-Url", target)
	return h.renderSection(c, q)
}

func (h *DashboardHandler) renderSection(c fiber.Ctx, keyword string) error {
	kw, err := h.keywordSection(c, keyword)
	if err != nil {
		return htmxError(c, "Failed to explore keyword")
	}
	return c.Render("partials/keyword", fiber.Map{"Keyword": kw}, "")
}

// Filter stores the selected sentiment filter in the session.
func (h *DashboardHandler) Filter(c fiber.Ctx) error {
	label, ok := validation.ParseSentiment(c.FormValue("sentiment"))
	if !ok {
		if isHTMX(c) {
			return htmxError(c, "Invalid sentiment filter")
		}
		return fiber.NewError(fiber.StatusBadRequest, "invalid sentiment filter")
	}
	storeSentiment(c, label)

	q := validation.NormalizeKeyword(c.FormValue("q"))
	if isHTMX(c) {
		return h.renderSection(c, q)
	}

	return c.Redirect().Status(fiber.StatusSeeOther).To(dashboardURL(q))
}

// dashboardURL is the address of the full dashboard showing keyword q.
func dashboardURL(q string) string {
	if q == "" {
		return "/"
	}
	return "/?q=" + url.QueryEscape(q)
}

func (h *DashboardHandler) keywordSection(c fiber.Ctx, keyword string) (*keywordView, error) {
	selected := selectedSentiment(c)
	view := &keywordView{
		State:   explorer.StateNoQuery.String(),
		Buttons: h.buttons(selected),
	}

	report, err := h.explorer.Explore(c.Context(), keyword, selected)
	if errors.Is(err, explorer.ErrInvalidKeyword) {
		metrics.RecordKeywordLookup("", models.OutcomeRejected)
		view.Keyword = validation.NormalizeKeyword(keyword)
		_, view.Error = validation.ValidateKeyword(validation.NormalizeKeyword(keyword))
		return view, nil
	}
	if err != nil {
		slog.Error("keyword exploration failed", "keyword", keyword, "error", err)
		return nil, err
	}

	view.State = report.State.String()
	view.Keyword = report.Keyword
	if report.State == explorer.StateNoQuery {
		return view, nil
	}

	lookupKey := validation.LookupKey(report.Keyword)
	view.Frequency = formatCount(report.Frequency)
	if report.State == explorer.StateNoMatches {
		metrics.RecordKeywordLookup(lookupKey, models.OutcomeNoMatch)
		return view, nil
	}
	metrics.RecordKeywordLookup(lookupKey, models.OutcomeMatched)

	view.MatchCount = report.Distribution.Total
	view.Shares = report.Distribution.Shares()
	view.Matches = highlightAll(report.Matches, report.Keyword)
	if report.Selected != nil {
		view.Selected = report.Selected.String()
		view.SelectedName = h.settings.Sentiment(*report.Selected).Name
		view.Filtered = highlightAll(report.Filtered, report.Keyword)
		view.FilteredEmpty = report.FilteredEmpty()
	}
	return view, nil
}

func (h *DashboardHandler) buttons(selected *models.SentimentLabel) []buttonView {
	labels := models.Labels()
	buttons := make([]buttonView, 0, len(labels))
	for _, l := range labels {
		buttons = append(buttons, buttonView{
			Value:  l.String(),
			Name:   h.settings.Sentiment(l).Name,
			Active: selected != nil && *selected == l,
		})
	}
	return buttons
}

func highlightAll(records []models.Record, keyword string) []postView {
	posts := make([]postView, len(records))
	for i, r := range records {
		posts[i] = postView{Segments: analysis.Segments(r.Text, keyword)}
	}
	return posts
}
