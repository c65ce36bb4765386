// Package router wires handlers onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/virtual-closet/internal/handler"
	"github.com/iliyamo/virtual-closet/internal/middleware"
)

// Handlers bundles every handler the API mounts.
type Handlers struct {
	Auth        *handler.AuthHandler
	Items       *handler.ItemHandler
	Outfits     *handler.OutfitHandler
	Schedules   *handler.ScheduleHandler
	Suggestions *handler.SuggestionHandler
	Uploads     *handler.UploadHandler
}

// Register mounts all routes. The cache middleware, when non-nil, is
// applied to the authenticated group so GET responses are served from
// Redis; it is keyed per user and never crosses accounts. The limiter,
// when non-nil, covers the session endpoints (keyed by client IP, the
// caller is anonymous there) and the authenticated group, where it runs
// after JWT so buckets are keyed per user.
func Register(e *echo.Echo, jwtSecret, uploadDir string, h Handlers, cache, limiter echo.MiddlewareFunc) {
	e.GET("/health", handler.Health)

	// Session endpoints. Logout takes the refresh token in the body, so
	// it needs no JWT.
	g := e.Group("/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)
	g.POST("/refresh", h.Auth.Refresh)
	g.POST("/logout", h.Auth.Logout)

	// Everything below requires a valid access token.
	api := e.Group("", middleware.JWTAuth(jwtSecret))
	if limiter != nil {
		api.Use(limiter)
	}
	if cache != nil {
		api.Use(cache)
	}

	api.POST("/auth/logout-all", h.Auth.LogoutAll)

	api.POST("/items", h.Items.Create)
	api.GET("/items", h.Items.List)
	api.GET("/items/:id", h.Items.Get)
	api.PUT("/items/:id", h.Items.Update)
	api.DELETE("/items/:id", h.Items.Delete)

	api.POST("/outfits", h.Outfits.Create)
	api.GET("/outfits", h.Outfits.List)
	api.GET("/outfits/:id", h.Outfits.Get)
	api.PUT("/outfits/:id", h.Outfits.Update)
	api.DELETE("/outfits/:id", h.Outfits.Delete)

	api.POST("/schedules", h.Schedules.Create)
	api.GET("/schedules", h.Schedules.List)
	api.GET("/schedules/:id", h.Schedules.Get)
	api.PUT("/schedules/:id", h.Schedules.Update)
	api.DELETE("/schedules/:id", h.Schedules.Delete)

	api.GET("/suggestions", h.Suggestions.Suggest)

	api.POST("/upload/image", h.Uploads.Image)

	// Stored images are served straight from disk.
	e.Static("/uploads", uploadDir)
}
