// Package router builds the route table of the catalog API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/metrics"
	"github.com/iliyamo/movie-catalog/internal/middleware"
)

// Handlers bundles every handler the routes point at.
type Handlers struct {
	Health  echo.HandlerFunc
	Auth    *handler.AuthHandler
	Catalog *handler.CatalogHandler
	Profile *handler.ProfileHandler
	Media   *handler.MediaHandler
	Rating  *handler.RatingHandler
	Library *handler.LibraryHandler
}

// Options carries the middleware the route groups need.  Cache is applied
// to the reference listings only, behind a requester check built from
// Identity.  RateLimit runs after JWTAuth so buckets can be keyed by user.
// Nil middleware is skipped.
type Options struct {
	JWTSecret string
	Identity  middleware.Resolver
	Cache     echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
}

// Register mounts all routes on e.
func Register(e *echo.Echo, h Handlers, opts Options) {
	limit := orNoop(opts.RateLimit)
	registerPublic(e, h, limit)

	authed := e.Group("", middleware.JWTAuth(opts.JWTSecret), limit)
	var requester echo.MiddlewareFunc
	if opts.Identity != nil {
		requester = middleware.LoadRequester(opts.Identity)
	}
	registerCatalog(authed, h.Catalog, orNoop(requester), orNoop(opts.Cache))
	registerAccount(authed, h.Profile, h.Library)
	registerContent(authed, h.Media, h.Rating)
}

func registerPublic(e *echo.Echo, h Handlers, limit echo.MiddlewareFunc) {
	e.GET("/healthz", h.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	e.POST("/register", h.Auth.Register, limit)
	e.POST("/login", h.Auth.Login, limit)
	e.POST("/logout", h.Auth.Logout, limit)
	e.POST("/refresh", h.Auth.Refresh, limit)
}

func orNoop(m echo.MiddlewareFunc) echo.MiddlewareFunc {
	if m == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return m
}
