package routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stackscout/backend/internal/server/middleware"
	"github.com/stackscout/backend/pkg/build"
	"github.com/stackscout/backend/pkg/logger"
	"github.com/stackscout/backend/pkg/stream"
)

// PostBuildHandler runs one build and streams its events back as NDJSON.
// Validation failures are the only errors reported at the HTTP level; once
// the stream is open, everything travels as events.
func PostBuildHandler(c echo.Context) error {
	type buildRequest struct {
		Prompt string `json:"prompt" validate:"required"`
	}

	data := new(buildRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request format",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request format",
		})
	}
	prompt := strings.TrimSpace(data.Prompt)
	if prompt == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request format",
		})
	}

	app := c.(*middleware.AppContext).App
	builder := build.NewBuilder(app.Classifier, app.Catalog, app.Previews, app.BuildConfig)

	ch := stream.NewChannel(c.Response())
	if err := builder.Run(c.Request().Context(), prompt, ch); err != nil {
		// Stream already carried the failure to the client.
		logger.Error("Build terminated early", "err", err)
	}
	return nil
}
