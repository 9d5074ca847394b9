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

// MediaAPI maintains language tracks and moments.
type MediaAPI interface {
	Languages(ctx context.Context, req *model.User) ([]projection.LanguageItem, error)
	Language(ctx context.Context, req *model.User, id uint64) (projection.LanguageItem, error)
	CreateLanguage(ctx context.Context, req *model.User, in service.LanguageInput) (projection.LanguageItem, error)
	UpdateLanguage(ctx context.Context, req *model.User, id uint64, in service.LanguageInput, partial bool) (projection.LanguageItem, error)
	DeleteLanguage(ctx context.Context, req *model.User, id uint64) error

	Moments(ctx context.Context, req *model.User) ([]projection.MomentItem, error)
	Moment(ctx context.Context, req *model.User, id uint64) (projection.MomentItem, error)
	CreateMoment(ctx context.Context, req *model.User, in service.MomentInput) (projection.MomentItem, error)
	UpdateMoment(ctx context.Context, req *model.User, id uint64, in service.MomentInput, partial bool) (projection.MomentItem, error)
	DeleteMoment(ctx context.Context, req *model.User, id uint64) error
}

type MediaHandler struct {
	base
	media MediaAPI
}

func NewMediaHandler(media MediaAPI, identity Identity, timeout time.Duration) *MediaHandler {
	return &MediaHandler{base: base{identity: identity, timeout: timeout}, media: media}
}

type languageReq struct {
	Movie    *uint64 `json:"movie"`
	Language *string `json:"language" validate:"omitempty,max=32"`
	Video    *string `json:"video" validate:"omitempty,max=255"`
}

func (r languageReq) input() service.LanguageInput {
	return service.LanguageInput{Movie: r.Movie, Language: r.Language, Video: r.Video}
}

type momentReq struct {
	Movie        *uint64 `json:"movie"`
	MovieMoments *string `json:"movie_moments" validate:"omitempty,max=255"`
}

func (r momentReq) input() service.MomentInput {
	return service.MomentInput{Movie: r.Movie, Image: r.MovieMoments}
}

func (h *MediaHandler) Languages(c echo.Context) error {
	return serve(h.base, c, http.StatusOK, h.media.Languages)
}

func (h *MediaHandler) Language(c echo.Context) error {
	return serveID(h.base, c, http.StatusOK, h.media.Language)
}

func (h *MediaHandler) CreateLanguage(c echo.Context) error {
	var body languageReq
	if err := bind(c, &body); err != nil {
		return err
	}
	return serve(h.base, c, http.StatusCreated, func(ctx context.Context, req *model.User) (projection.LanguageItem, error) {
		return h.media.CreateLanguage(ctx, req, body.input())
	})
}

func (h *MediaHandler) UpdateLanguage(c echo.Context) error {
	var body languageReq
	if err := bind(c, &body); err != nil {
		return err
	}
	return serveID(h.base, c, http.StatusOK, func(ctx context.Context, req *model.User, id uint64) (projection.LanguageItem, error) {
		return h.media.UpdateLanguage(ctx, req, id, body.input(), partial(c))
	})
}

func (h *MediaHandler) DeleteLanguage(c echo.Context) error {
	return remove(h.base, c, h.media.DeleteLanguage)
}

func (h *MediaHandler) Moments(c echo.Context) error {
	return serve(h.base, c, http.StatusOK, h.media.Moments)
}

func (h *MediaHandler) Moment(c echo.Context) error {
	return serveID(h.base, c, http.StatusOK, h.media.Moment)
}

func (h *MediaHandler) CreateMoment(c echo.Context) error {
	var body momentReq
	if err := bind(c, &body); err != nil {
		return err
	}
	return serve(h.base, c, http.StatusCreated, func(ctx context.Context, req *model.User) (projection.MomentItem, error) {
		return h.media.CreateMoment(ctx, req, body.input())
	})
}

func (h *MediaHandler) UpdateMoment(c echo.Context) error {
	var body momentReq
	if err := bind(c, &body); err != nil {
		return err
	}
	return serveID(h.base, c, http.StatusOK, func(ctx context.Context, req *model.User, id uint64) (projection.MomentItem, error) {
		return h.media.UpdateMoment(ctx, req, id, body.input(), partial(c))
	})
}

func (h *MediaHandler) DeleteMoment(c echo.Context) error {
	return remove(h.base, c, h.media.DeleteMoment)
}
