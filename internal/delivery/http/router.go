package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	custommiddleware "cfohelper/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AccountHandler *AccountHandler
	Logger         *zap.Logger
	// StaticDir, when set, serves the browser frontend from the same origin
	StaticDir string
}

// NewEcho creates an echo instance with the goccy JSON codec and no banner
func NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = JSONSerializer{}
	return e
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	e.Use(middleware.RequestID())
	e.Use(custommiddleware.ZapRequestLogger(config.Logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Account routes (public, no token is ever issued)
	e.POST("/signup", config.AccountHandler.Signup)
	e.POST("/login", config.AccountHandler.Login)
	e.POST("/save-history", config.AccountHandler.SaveHistory)
	e.POST("/get-history", config.AccountHandler.GetHistory)

	if config.StaticDir != "" {
		e.Static("/", config.StaticDir)
	}
}
