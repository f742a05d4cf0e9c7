package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stackscout/backend/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Liveness route
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	e.GET("/health", routes.GetHealthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/api/build", routes.PostBuildHandler)
}
