package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"careerhub-utils/internal/api/middleware"
	"careerhub-utils/internal/api/validation"
	"careerhub-utils/internal/backend"
	"careerhub-utils/internal/logging"
	"careerhub-utils/internal/savedjobs"
	"careerhub-utils/pkg/models"
	"careerhub-utils/pkg/utils"
)

var validate = validation.New()

func requestID(c echo.Context) string {
	if id, ok := c.Get(middleware.RequestIDKey).(string); ok && id != "" {
		return id
	}
	id := utils.GenerateRequestID()
	c.Set(middleware.RequestIDKey, id)
	return id
}

func sessionID(c echo.Context) string {
	s, _ := c.Get(middleware.SessionIDKey).(string)
	return s
}

func studentID(c echo.Context) string {
	s, _ := c.Get(middleware.StudentIDKey).(string)
	return s
}

func requestLogger(c echo.Context) logging.Logger {
	return logging.LogWithRequestID(requestID(c)).WithField("session_id", sessionID(c))
}

// classify maps an error onto an HTTP status and a stable error code
func classify(err error) (int, string) {
	var (
		ce *utils.CustomError
		ve validator.ValidationErrors
		be *backend.Error
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, "validation_failed"
	case errors.As(err, &ce):
		switch ce.Code {
		case http.StatusBadRequest:
			return ce.Code, "invalid_request"
		case http.StatusNotFound:
			return ce.Code, "not_found"
		case http.StatusBadGateway:
			return ce.Code, "backend_unavailable"
		case http.StatusGatewayTimeout:
			return ce.Code, "request_timeout"
		}
		return ce.Code, "internal_error"
	case errors.Is(err, savedjobs.ErrNotFound):
		return http.StatusNotFound, "job_not_found"
	case errors.Is(err, savedjobs.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request_timeout"
	case errors.As(err, &be):
		if be.StatusCode == http.StatusNotFound {
			return http.StatusNotFound, "not_found"
		}
	}
	// everything else failed talking to the backend
	return http.StatusBadGateway, "backend_unavailable"
}

func errorJSON(c echo.Context, err error) error {
	status, code := classify(err)
	return c.JSON(status, models.ErrorResponse{
		Error:     code,
		Message:   err.Error(),
		RequestID: requestID(c),
		Timestamp: time.Now(),
	})
}
