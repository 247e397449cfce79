package routes

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"careerhub-utils/internal/api/handlers"
	"careerhub-utils/internal/api/middleware"
	"careerhub-utils/internal/config"
)

// Deps are the services the routes dispatch to
type Deps struct {
	Store    handlers.SessionStore
	Sidebar  handlers.SidebarLoader
	Skills   handlers.SkillsClient
	Resolver handlers.URLResolver
	Checks   map[string]handlers.Check
	Status   func() map[string]string
	Now      handlers.Clock
}

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, deps Deps) {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig(cfg.Server.AllowOrigins))
	e.Use(middleware.RequestValidation())
	if cfg.Server.RequestTimeout > 0 {
		e.Use(middleware.TimeoutConfig(cfg.Server.RequestTimeout))
	}

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(deps.Checks))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(deps.Status))

	// API v1 routes
	v1 := e.Group("/api/v1", middleware.RequireSession())
	{
		saved := v1.Group("/saved-jobs")
		{
			saved.GET("", handlers.ListSavedJobsHandler(deps.Store, deps.Now))
			saved.POST("/refresh", handlers.RefreshSavedJobsHandler(deps.Store, deps.Now))
			saved.DELETE("/:id", handlers.RemoveSavedJobHandler(deps.Store, deps.Now))
			saved.POST("/:id/select", handlers.SelectSavedJobHandler(deps.Store, deps.Now))
			saved.GET("/:id/skills", handlers.JobSkillsHandler(deps.Skills))
		}

		v1.GET("/sidebar", handlers.SidebarHandler(deps.Sidebar))
		v1.GET("/assets/signed-url", handlers.SignedURLHandler(deps.Resolver))
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "CareerHub Saved Jobs",
			"version": handlers.Version,
			"status":  "running",
		})
	})
}
