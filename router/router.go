package router

import (
	"github.com/labstack/echo/v4"

	"docqa/entities"
	"docqa/pkg/middleware"
)

func New(
	e *echo.Echo,
	authEnabled bool,
	verifier middleware.TokenVerifier,
	authCtrl interface {
		Login(echo.Context) error
		WhoAmI(echo.Context) error
	},
	docCtrl interface {
		Upload(echo.Context) error
		IngestURL(echo.Context) error
		Ask(echo.Context) error
		List(echo.Context) error
	},
	folderCtrl interface {
		Create(echo.Context) error
		List(echo.Context) error
		Documents(echo.Context) error
	},
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.POST("/login", authCtrl.Login)
	e.GET("/health", healthCtrl.Health)

	api := e.Group("", middleware.Auth(authEnabled, verifier))
	admin := middleware.RequireRole(entities.RoleAdmin)

	api.GET("/whoami", authCtrl.WhoAmI)

	api.POST("/upload", docCtrl.Upload, admin)
	api.POST("/ingest/url", docCtrl.IngestURL, admin)
	api.POST("/ask", docCtrl.Ask)
	api.GET("/documents", docCtrl.List)

	api.POST("/folders", folderCtrl.Create, admin)
	api.GET("/folders", folderCtrl.List)
	api.GET("/folders/:id/documents", folderCtrl.Documents)
	return e
}
