package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"careerhub-utils/pkg/models"
	"careerhub-utils/pkg/utils"
)

// AssetQuery is the query string of GET /assets/signed-url
type AssetQuery struct {
	Path string `query:"path" validate:"required,storage_path"`
}

// URLResolver turns a storage path into a signed URL
type URLResolver interface {
	Resolve(ctx context.Context, path string) (string, error)
}

// SignedURLHandler resolves one asset path. An unresolvable asset returns
// an empty url so the client can show its placeholder.
func SignedURLHandler(resolver URLResolver) echo.HandlerFunc {
	return func(c echo.Context) error {
		var q AssetQuery
		if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
			return errorJSON(c, utils.NewBadRequestError("Invalid query parameters"))
		}
		if err := validate.Struct(&q); err != nil {
			return errorJSON(c, err)
		}

		u, err := resolver.Resolve(c.Request().Context(), q.Path)
		if err != nil {
			return errorJSON(c, utils.NewTimeoutError("Signed URL request was cancelled"))
		}
		return c.JSON(http.StatusOK, models.SignedURLResponse{Path: q.Path, URL: u})
	}
}
