package middleware

import (
	"net/url"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"sentidash/internal/models"
)

// Session keys holding the logged-in identity.
const (
	sessionUserSub   = "user_sub"
	sessionUserEmail = "user_email"
	sessionUserName  = "user_name"
)

// AuthMiddleware handles user authentication via sessions. When disabled,
// every request is let through anonymously.
type AuthMiddleware struct {
	enabled bool
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(enabled bool) *AuthMiddleware {
	return &AuthMiddleware{enabled: enabled}
}

// StoreUser writes the identity into the session.
func StoreUser(sess *session.Middleware, user *models.SessionUser) {
	sess.Set(sessionUserSub, user.Sub)
	sess.Set(sessionUserEmail, user.Email)
	sess.Set(sessionUserName, user.Name)
}

// CurrentUser returns the identity stored in the session, or nil.
func CurrentUser(c fiber.Ctx) *models.SessionUser {
	sess := session.FromContext(c)
	if sess == nil {
		return nil
	}
	sub, _ := sess.Get(sessionUserSub).(string)
	if sub == "" {
		return nil
	}
	email, _ := sess.Get(sessionUserEmail).(string)
	name, _ := sess.Get(sessionUserName).(string)
	return &models.SessionUser{Sub: sub, Email: email, Name: name}
}

// RequireAuth ensures the user is authenticated, redirecting to /login if not.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	if !m.enabled {
		return c.Next()
	}

	user := CurrentUser(c)
	if user == nil {
		return c.Redirect().To("/login?next=" + url.QueryEscape(c.OriginalURL()))
	}

	c.Locals("user", user)
	return c.Next()
}

// RequireAPIAuth is RequireAuth for JSON endpoints: it answers 401 instead
// of redirecting.
func (m *AuthMiddleware) RequireAPIAuth(c fiber.Ctx) error {
	if !m.enabled {
		return c.Next()
	}

	user := CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "authentication required",
		})
	}

	c.Locals("user", user)
	return c.Next()
}
