package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"careerhub-utils/internal/pipeline"
	"careerhub-utils/internal/savedjobs"
	"careerhub-utils/pkg/models"
	"careerhub-utils/pkg/utils"
)

// ListQuery is the query string of GET /saved-jobs
type ListQuery struct {
	Search string `query:"search" validate:"max=200"`
	Sort   string `query:"sort" validate:"omitempty,oneof=recent match company"`
	Page   int    `query:"page" validate:"omitempty,min=1"`
}

// JobRef identifies a job in the path
type JobRef struct {
	ID string `validate:"required,job_id"`
}

// SessionStore is the part of savedjobs.Store the handlers use
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*savedjobs.List, error)
}

// Clock returns the current time; tests pin it
type Clock func() time.Time

func bindJobRef(c echo.Context) (JobRef, error) {
	ref := JobRef{ID: c.Param("id")}
	if err := validate.Struct(&ref); err != nil {
		return ref, err
	}
	return ref, nil
}

func renderPage(c echo.Context, list *savedjobs.List, now Clock) error {
	page, err := list.View(c.Request().Context(), now())
	if err != nil {
		return errorJSON(c, err)
	}
	page.RequestID = requestID(c)
	return c.JSON(http.StatusOK, page)
}

// ListSavedJobsHandler applies search, sort and page from the query string
// and returns the resulting page of cards.
func ListSavedJobsHandler(store SessionStore, now Clock) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := requestLogger(c)

		var q ListQuery
		if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
			return errorJSON(c, utils.NewBadRequestError("Invalid query parameters"))
		}
		if err := validate.Struct(&q); err != nil {
			logger.Warn("Saved jobs query rejected", map[string]interface{}{"error": err.Error()})
			return errorJSON(c, err)
		}
		sort, err := pipeline.ParseSortKey(q.Sort)
		if err != nil {
			return errorJSON(c, utils.NewValidationError(err.Error()))
		}

		list, err := store.Get(c.Request().Context(), sessionID(c))
		if err != nil {
			logger.Error("Failed to load saved jobs", map[string]interface{}{"error": err.Error()})
			return errorJSON(c, err)
		}

		list.SetQuery(q.Search, sort)
		if q.Page > 0 {
			list.SetPage(q.Page)
		}
		return renderPage(c, list, now)
	}
}

// RefreshSavedJobsHandler re-fetches the session's saved jobs
func RefreshSavedJobsHandler(store SessionStore, now Clock) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := requestLogger(c)
		ctx := c.Request().Context()

		list, err := store.Get(ctx, sessionID(c))
		if err == nil {
			err = list.Refresh(ctx)
		}
		if err != nil {
			logger.Error("Failed to refresh saved jobs", map[string]interface{}{"error": err.Error()})
			return errorJSON(c, err)
		}

		logger.Info("Saved jobs refreshed", map[string]interface{}{"count": len(list.Jobs())})
		return renderPage(c, list, now)
	}
}

// RemoveSavedJobHandler unsaves a job. Local state changes only after the
// backend confirms the delete.
func RemoveSavedJobHandler(store SessionStore, now Clock) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := requestLogger(c)

		ref, err := bindJobRef(c)
		if err != nil {
			return errorJSON(c, err)
		}

		list, err := store.Get(c.Request().Context(), sessionID(c))
		if err != nil {
			return errorJSON(c, err)
		}
		if err := list.Remove(c.Request().Context(), ref.ID); err != nil {
			return errorJSON(c, err)
		}

		logger.Info("Saved job removed", map[string]interface{}{"job_id": ref.ID})
		return renderPage(c, list, now)
	}
}

// SelectSavedJobHandler toggles the selected card
func SelectSavedJobHandler(store SessionStore, now Clock) echo.HandlerFunc {
	return func(c echo.Context) error {
		ref, err := bindJobRef(c)
		if err != nil {
			return errorJSON(c, err)
		}

		list, err := store.Get(c.Request().Context(), sessionID(c))
		if err != nil {
			return errorJSON(c, err)
		}
		if _, err := list.Select(ref.ID); err != nil {
			return errorJSON(c, err)
		}
		return renderPage(c, list, now)
	}
}

// SkillsClient fetches the skills of a job
type SkillsClient interface {
	JobSkills(ctx context.Context, sessionID, jobID string) ([]string, error)
}

// JobSkillsHandler returns a job's skills. Backend failures yield an empty
// list rather than an error.
func JobSkillsHandler(client SkillsClient) echo.HandlerFunc {
	return func(c echo.Context) error {
		ref, err := bindJobRef(c)
		if err != nil {
			return errorJSON(c, err)
		}

		skills, err := client.JobSkills(c.Request().Context(), sessionID(c), ref.ID)
		if err != nil {
			requestLogger(c).Warn("Job skills unavailable", map[string]interface{}{
				"job_id": ref.ID,
				"error":  err.Error(),
			})
			skills = []string{}
		}

		return c.JSON(http.StatusOK, models.SkillsResponse{JobID: ref.ID, Skills: skills})
	}
}
