package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/projection"
)

// LibraryAPI is the requester's favorites and viewing history.
type LibraryAPI interface {
	Favorites(ctx context.Context, req *model.User) ([]projection.FavoriteItem, error)
	Favorite(ctx context.Context, req *model.User, id uint64) (projection.FavoriteItem, error)
	CreateFavorite(ctx context.Context, req *model.User) (projection.FavoriteItem, error)
	DeleteFavorite(ctx context.Context, req *model.User, id uint64) error

	FavoriteMovies(ctx context.Context, req *model.User) ([]projection.FavoriteMovieItem, error)
	FavoriteMovie(ctx context.Context, req *model.User, id uint64) (projection.FavoriteMovieItem, error)
	AddFavoriteMovie(ctx context.Context, req *model.User, movieID *uint64) (projection.FavoriteMovieItem, error)
	RemoveFavoriteMovie(ctx context.Context, req *model.User, id uint64) error

	History(ctx context.Context, req *model.User) ([]projection.HistoryItem, error)
	HistoryEntry(ctx context.Context, req *model.User, id uint64) (projection.HistoryItem, error)
	RecordView(ctx context.Context, req *model.User, movieID *uint64) (projection.HistoryItem, error)
	DeleteHistory(ctx context.Context, req *model.User, id uint64) error
}

type LibraryHandler struct {
	base
	library LibraryAPI
}

func NewLibraryHandler(library LibraryAPI, identity Identity, timeout time.Duration) *LibraryHandler {
	return &LibraryHandler{base: base{identity: identity, timeout: timeout}, library: library}
}

// movieRef is the body of favorite_movie and history writes.  Any other
// field (a list id, a user id) is ignored; ownership comes from the token.
type movieRef struct {
	Movie *uint64 `json:"movie"`
}

func (h *LibraryHandler) Favorites(c echo.Context) error {
	return serve(h.base, c, http.StatusOK, h.library.Favorites)
}

func (h *LibraryHandler) Favorite(c echo.Context) error {
	return serveID(h.base, c, http.StatusOK, h.library.Favorite)
}

func (h *LibraryHandler) CreateFavorite(c echo.Context) error {
	return serve(h.base, c, http.StatusCreated, h.library.CreateFavorite)
}

func (h *LibraryHandler) DeleteFavorite(c echo.Context) error {
	return remove(h.base, c, h.library.DeleteFavorite)
}

func (h *LibraryHandler) FavoriteMovies(c echo.Context) error {
	return serve(h.base, c, http.StatusOK, h.library.FavoriteMovies)
}

func (h *LibraryHandler) FavoriteMovie(c echo.Context) error {
	return serveID(h.base, c, http.StatusOK, h.library.FavoriteMovie)
}

func (h *LibraryHandler) AddFavoriteMovie(c echo.Context) error {
	var body movieRef
	if err := bind(c, &body); err != nil {
		return err
	}
	return serve(h.base, c, http.StatusCreated, func(ctx context.Context, req *model.User) (projection.FavoriteMovieItem, error) {
		return h.library.AddFavoriteMovie(ctx, req, body.Movie)
	})
}

func (h *LibraryHandler) RemoveFavoriteMovie(c echo.Context) error {
	return remove(h.base, c, h.library.RemoveFavoriteMovie)
}

func (h *LibraryHandler) History(c echo.Context) error {
	return serve(h.base, c, http.StatusOK, h.library.History)
}

func (h *LibraryHandler) HistoryEntry(c echo.Context) error {
	return serveID(h.base, c, http.StatusOK, h.library.HistoryEntry)
}

func (h *LibraryHandler) RecordView(c echo.Context) error {
	var body movieRef
	if err := bind(c, &body); err != nil {
		return err
	}
	return serve(h.base, c, http.StatusCreated, func(ctx context.Context, req *model.User) (projection.HistoryItem, error) {
		return h.library.RecordView(ctx, req, body.Movie)
	})
}

func (h *LibraryHandler) DeleteHistory(c echo.Context) error {
	return remove(h.base, c, h.library.DeleteHistory)
}
