package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/projection"
	"github.com/iliyamo/movie-catalog/internal/service"
)

type RatingAPI interface {
	List(ctx context.Context, req *model.User) ([]projection.RatingItem, error)
	Get(ctx context.Context, req *model.User, id uint64) (projection.RatingItem, error)
	Create(ctx context.Context, req *model.User, in service.RatingInput) (projection.RatingItem, error)
	Update(ctx context.Context, req *model.User, id uint64, in service.RatingInput, partial bool) (projection.RatingItem, error)
	Delete(ctx context.Context, req *model.User, id uint64) error
}

type RatingHandler struct {
	base
	ratings RatingAPI
}

func NewRatingHandler(ratings RatingAPI, identity Identity, timeout time.Duration) *RatingHandler {
	return &RatingHandler{base: base{identity: identity, timeout: timeout}, ratings: ratings}
}

// ratingReq leaves star bounds to the service so the message is the same
// for create and update.
type ratingReq struct {
	Movie  *uint64 `json:"movie"`
	Stars  *int    `json:"stars"`
	Parent *uint64 `json:"parent"`
	Text   *string `json:"text" validate:"omitempty,max=2000"`
}

func (r ratingReq) input() service.RatingInput {
	return service.RatingInput{Movie: r.Movie, Stars: r.Stars, Parent: r.Parent, Text: r.Text}
}

func (h *RatingHandler) List(c echo.Context) error {
	return serve(h.base, c, http.StatusOK, h.ratings.List)
}

func (h *RatingHandler) Get(c echo.Context) error {
	return serveID(h.base, c, http.StatusOK, h.ratings.Get)
}

func (h *RatingHandler) Create(c echo.Context) error {
	var body ratingReq
	if err := bind(c, &body); err != nil {
		return err
	}
	return serve(h.base, c, http.StatusCreated, func(ctx context.Context, req *model.User) (projection.RatingItem, error) {
		return h.ratings.Create(ctx, req, body.input())
	})
}

func (h *RatingHandler) Update(c echo.Context) error {
	var body ratingReq
	if err := bind(c, &body); err != nil {
		return err
	}
	return serveID(h.base, c, http.StatusOK, func(ctx context.Context, req *model.User, id uint64) (projection.RatingItem, error) {
		return h.ratings.Update(ctx, req, id, body.input(), partial(c))
	})
}

func (h *RatingHandler) Delete(c echo.Context) error {
	return remove(h.base, c, h.ratings.Delete)
}
