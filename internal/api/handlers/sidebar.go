package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"careerhub-utils/pkg/models"
)

// SidebarLoader loads the dashboard sidebar
type SidebarLoader interface {
	Load(ctx context.Context, sessionID, studentID string) *models.SidebarResponse
}

// SidebarHandler returns recent saved jobs and top matches. It always
// answers 200; unavailable halves are empty.
func SidebarHandler(loader SidebarLoader) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp := loader.Load(c.Request().Context(), sessionID(c), studentID(c))
		resp.RequestID = requestID(c)
		return c.JSON(http.StatusOK, resp)
	}
}
