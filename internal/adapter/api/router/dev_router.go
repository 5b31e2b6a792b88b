package router

import (
	"github.com/labstack/echo/v4"

	"gigstage/internal/adapter/api/handler"
)

func SetupDevRouter(e *echo.Echo, environment string) {
	if environment != "development" {
		return
	}
	authHandler := handler.GetAuthHandler()

	e.POST("/_dev/login", authHandler.DevLogin)
}
