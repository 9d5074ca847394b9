package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/handler"
)

// registerCatalog mounts the read-only catalog.  Only the reference
// listings go through the response cache: their body is the same for
// every user, unlike movie listings and details which carry averages.
// requester runs before cache so a hit still rejects deleted and
// deactivated accounts.
func registerCatalog(g *echo.Group, h *handler.CatalogHandler, requester, cache echo.MiddlewareFunc) {
	g.GET("/movie", h.Movies)
	g.GET("/movie/:id", h.Movie)

	g.GET("/country", h.Countries, requester, cache)
	g.GET("/country/:id", h.Country)
	g.GET("/genre", h.Genres, requester, cache)
	g.GET("/genre/:id", h.Genre)
	g.GET("/director", h.Directors, requester, cache)
	g.GET("/director/:id", h.Director)
	g.GET("/actor", h.Actors, requester, cache)
	g.GET("/actor/:id", h.Actor)
}
