// Package router wires the admin API routes onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/warranty-migration/internal/config"
	"github.com/iliyamo/warranty-migration/internal/handler"
	"github.com/iliyamo/warranty-migration/internal/middleware"
	"github.com/iliyamo/warranty-migration/internal/service"
)

// RegisterRoutes sets up the admin API: a public health check, operator
// login, and the JWT-protected migration endpoints.
func RegisterRoutes(e *echo.Echo, cfg config.ServerConfig, svc *service.Migration) {
	e.GET("/health", handler.Health)

	auth := &handler.AuthHandler{Cfg: cfg}
	e.POST("/v1/auth/token", auth.Token)

	mig := &handler.MigrationHandler{Svc: svc, Cfg: cfg}
	v1 := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	v1.POST("/migrations", mig.Trigger)
	v1.GET("/migrations/latest", mig.Latest)
}
