package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"careerhub-utils/pkg/models"
)

// Version is reported by the health endpoints
const Version = "1.0.0"

var startTime = time.Now()

// Check probes one dependency
type Check func(ctx context.Context) error

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	requestLogger(c).Debug("Health check requested")

	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(startTime),
		Checks:    map[string]string{"api": "ok"},
	})
}

// ReadinessHandler runs every check; any failure answers 503
func ReadinessHandler(checks map[string]Check) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := requestLogger(c)

		ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
		defer cancel()

		status, code := "ready", http.StatusOK
		results := map[string]string{"api": "ok"}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status, code = "not_ready", http.StatusServiceUnavailable
				logger.Warn("Readiness check failed", map[string]interface{}{"check": name, "error": err.Error()})
				continue
			}
			results[name] = "ok"
		}

		return c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   Version,
			Uptime:    time.Since(startTime),
			Checks:    results,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(startTime),
	})
}

// StatusHandler reports operational counters supplied by info
func StatusHandler(info func() map[string]string) echo.HandlerFunc {
	return func(c echo.Context) error {
		checks := map[string]string{"api": "operational"}
		if info != nil {
			for k, v := range info() {
				checks[k] = v
			}
		}
		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "operational",
			Timestamp: time.Now(),
			Version:   Version,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}
