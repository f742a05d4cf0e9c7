package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/stackscout/backend/pkg/build"
	"github.com/stackscout/backend/pkg/catalog"
	"github.com/stackscout/backend/pkg/classify"
	"github.com/stackscout/backend/pkg/preview"
)

// App carries the process-wide collaborators, built once at startup and
// read-only afterwards.
type App struct {
	Classifier  *classify.Classifier
	Catalog     *catalog.Client
	Previews    *preview.Fetcher
	BuildConfig build.Config
}

// AppContext wraps the echo context with the application collaborators.
type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware injects the App into every request context.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{c, app})
		}
	}
}
