package handler

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/projection"
	"github.com/iliyamo/movie-catalog/internal/query"
)

// CatalogAPI is the read side of the catalog.
type CatalogAPI interface {
	ListMovies(ctx context.Context, req *model.User, params url.Values) ([]projection.MovieListItem, error)
	MovieDetail(ctx context.Context, req *model.User, id uint64) (projection.MovieDetail, error)
	Countries(ctx context.Context, req *model.User) ([]projection.CountryItem, error)
	Country(ctx context.Context, req *model.User, id uint64) (projection.CountryDetail, error)
	Genres(ctx context.Context, req *model.User) ([]projection.GenreItem, error)
	Genre(ctx context.Context, req *model.User, id uint64) (projection.GenreDetail, error)
	Directors(ctx context.Context, req *model.User) ([]projection.DirectorItem, error)
	Director(ctx context.Context, req *model.User, id uint64) (projection.DirectorDetail, error)
	Actors(ctx context.Context, req *model.User, self *url.URL) (query.PageResult[projection.ActorItem], error)
	Actor(ctx context.Context, req *model.User, id uint64) (projection.ActorDetail, error)
}

type CatalogHandler struct {
	base
	catalog CatalogAPI
}

func NewCatalogHandler(catalog CatalogAPI, identity Identity, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{base: base{identity: identity, timeout: timeout}, catalog: catalog}
}

// Movies lists movies filtered by ?country=, ?genre= and ?search=.
func (h *CatalogHandler) Movies(c echo.Context) error {
	params := c.QueryParams()
	return serve(h.base, c, http.StatusOK, func(ctx context.Context, req *model.User) ([]projection.MovieListItem, error) {
		return h.catalog.ListMovies(ctx, req, params)
	})
}

func (h *CatalogHandler) Movie(c echo.Context) error {
	return serveID(h.base, c, http.StatusOK, h.catalog.MovieDetail)
}

func (h *CatalogHandler) Countries(c echo.Context) error {
	return serve(h.base, c, http.StatusOK, h.catalog.Countries)
}

func (h *CatalogHandler) Country(c echo.Context) error {
	return serveID(h.base, c, http.StatusOK, h.catalog.Country)
}

func (h *CatalogHandler) Genres(c echo.Context) error {
	return serve(h.base, c, http.StatusOK, h.catalog.Genres)
}

func (h *CatalogHandler) Genre(c echo.Context) error {
	return serveID(h.base, c, http.StatusOK, h.catalog.Genre)
}

func (h *CatalogHandler) Directors(c echo.Context) error {
	return serve(h.base, c, http.StatusOK, h.catalog.Directors)
}

func (h *CatalogHandler) Director(c echo.Context) error {
	return serveID(h.base, c, http.StatusOK, h.catalog.Director)
}

// Actors serves one page of actors; next and previous links are absolute.
func (h *CatalogHandler) Actors(c echo.Context) error {
	r := c.Request()
	self := &url.URL{Scheme: c.Scheme(), Host: r.Host, Path: r.URL.Path, RawQuery: r.URL.RawQuery}
	return serve(h.base, c, http.StatusOK, func(ctx context.Context, req *model.User) (query.PageResult[projection.ActorItem], error) {
		return h.catalog.Actors(ctx, req, self)
	})
}

func (h *CatalogHandler) Actor(c echo.Context) error {
	return serveID(h.base, c, http.StatusOK, h.catalog.Actor)
}
