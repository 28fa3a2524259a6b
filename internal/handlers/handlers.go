package handlers

import (
	"html"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"sentidash/internal/models"
	"sentidash/internal/validation"
)

// Session keys.
const (
	sessionSentimentKey = "sentiment"
	sessionStateKey     = "oauth_state"
	sessionRedirectKey  = "redirect_after_login"
)

// htmxError returns an error message as HTML that HTMX will display.
// Uses 200 status so HTMX processes the swap (HTMX ignores non-2xx by default).
func htmxError(c fiber.Ctx, message string) error {
	return c.SendString(
		`<div class="p-3 rounded-lg bg-red-50 text-red-700 text-sm">` + html.EscapeString(message) + `</div>`,
	)
}

// isHTMX reports whether the request was issued by HTMX.
func isHTMX(c fiber.Ctx) bool {
	return c.Get("HX-Request") == "true"
}

// selectedSentiment reads the sentiment filter stored in the session.
func selectedSentiment(c fiber.Ctx) *models.SentimentLabel {
	sess := session.FromContext(c)
	if sess == nil {
		return nil
	}
	value, _ := sess.Get(sessionSentimentKey).(string)
	label, ok := validation.ParseSentiment(value)
	if !ok {
		return nil
	}
	return label
}

// storeSentiment saves the sentiment filter in the session; nil clears it.
func storeSentiment(c fiber.Ctx, label *models.SentimentLabel) {
	sess := session.FromContext(c)
	if sess == nil {
		return
	}
	if label == nil {
		sess.Delete(sessionSentimentKey)
		return
	}
	sess.Set(sessionSentimentKey, label.String())
}

// formatCount renders n with thousands separators.
func formatCount(n int) string {
	if n < 0 {
		return "-" + formatCount(-n)
	}
	s := strconv.Itoa(n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
