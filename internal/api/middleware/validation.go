package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"careerhub-utils/internal/api/validation"
	"careerhub-utils/pkg/models"
	"careerhub-utils/pkg/utils"
)

const (
	HeaderSessionID = "X-Session-ID"
	HeaderStudentID = "X-Student-ID"

	// context keys
	RequestIDKey = "request_id"
	SessionIDKey = "session_id"
	StudentIDKey = "student_id"
)

const maxBodyBytes = 1024 * 1024

// RequestValidation tags every request with an id and rejects oversized
// bodies.
func RequestValidation() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = utils.GenerateRequestID()
			}
			c.Set(RequestIDKey, requestID)
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			if c.Request().ContentLength > maxBodyBytes {
				return c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
					Error:     "request_too_large",
					Message:   "Request body too large",
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}

			return next(c)
		}
	}
}

// RequireSession rejects requests without a well-formed X-Session-ID and
// stores the session (and optional student) id on the context.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := c.Request().Header.Get(HeaderSessionID)
			if session == "" || !validation.SessionIDPattern.MatchString(session) {
				requestID, _ := c.Get(RequestIDKey).(string)
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error:     "missing_session",
					Message:   "A valid X-Session-ID header is required",
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}
			c.Set(SessionIDKey, session)
			c.Set(StudentIDKey, c.Request().Header.Get(HeaderStudentID))
			return next(c)
		}
	}
}
