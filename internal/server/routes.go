package server

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sentidash/internal/config"
	"sentidash/internal/explorer"
	"sentidash/internal/handlers"
	"sentidash/internal/handlers/api"
	"sentidash/internal/middleware"
)

// Deps are the collaborators routes are wired to.
type Deps struct {
	Explorer *explorer.Explorer
	Settings *config.YAMLConfig
	// Checks are pinged by /readyz; nil entries are skipped.
	Checks map[string]handlers.Pinger
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, deps Deps) error {
	authMiddleware := middleware.NewAuthMiddleware(s.Cfg.AuthEnabled())

	dashboardHandler := handlers.NewDashboardHandler(deps.Explorer, s.Cfg, deps.Settings)
	apiHandler := api.NewHandler(deps.Explorer)
	healthHandler := handlers.NewHealthHandler(deps.Checks)

	// Probes and metrics - always public
	s.App.Get("/healthz", healthHandler.Live)
	s.App.Get("/readyz", healthHandler.Ready)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Auth routes - only when OIDC is configured
	if s.Cfg.AuthEnabled() {
		authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg)
		if err != nil {
			return err
		}
		s.App.Get("/auth/login", authHandler.Login)
		s.App.Get("/auth/callback", authHandler.Callback)
		s.App.Get("/auth/logout", authHandler.Logout)
		s.App.Get("/login", handlers.LoginPage(s.Cfg))
	} else {
		slog.Info("OIDC authentication is disabled. Set OIDC_ISSUER to enable.")
	}

	// Dashboard
	s.App.Get("/", authMiddleware.RequireAuth, dashboardHandler.Index)
	s.App.Get("/explore", authMiddleware.RequireAuth, dashboardHandler.Explore)
	s.App.Post("/filter", authMiddleware.RequireAuth, dashboardHandler.Filter)

	// JSON API
	apiGroup := s.App.Group("/api", authMiddleware.RequireAPIAuth)
	apiGroup.Get("/overview", apiHandler.Overview)
	apiGroup.Get("/frequencies", apiHandler.Frequencies)
	apiGroup.Get("/keywords/:keyword", apiHandler.Keyword)
	apiGroup.Get("/keywords/:keyword/posts", apiHandler.Posts)
	apiGroup.Delete("/cache", apiHandler.ClearCache)

	return nil
}
