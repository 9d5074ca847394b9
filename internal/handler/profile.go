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

// ProfileAPI exposes the requester's own account.
type ProfileAPI interface {
	List(ctx context.Context, req *model.User) ([]projection.Profile, error)
	Get(ctx context.Context, req *model.User, id uint64) (projection.Profile, error)
	Update(ctx context.Context, req *model.User, id uint64, in service.ProfileInput, partial bool) (projection.Profile, error)
	Delete(ctx context.Context, req *model.User, id uint64) error
}

type ProfileHandler struct {
	base
	profiles ProfileAPI
}

func NewProfileHandler(profiles ProfileAPI, identity Identity, timeout time.Duration) *ProfileHandler {
	return &ProfileHandler{base: base{identity: identity, timeout: timeout}, profiles: profiles}
}

type profileReq struct {
	Email     *string       `json:"email" validate:"omitempty,email,max=254"`
	FirstName *string       `json:"first_name" validate:"omitempty,max=32"`
	LastName  *string       `json:"last_name" validate:"omitempty,max=32"`
	Age       *uint8        `json:"age"`
	Phone     *string       `json:"phone_number"`
	Status    *model.Status `json:"status"`
}

func (h *ProfileHandler) List(c echo.Context) error {
	return serve(h.base, c, http.StatusOK, h.profiles.List)
}

func (h *ProfileHandler) Get(c echo.Context) error {
	return serveID(h.base, c, http.StatusOK, h.profiles.Get)
}

// Update serves PUT and PATCH.
func (h *ProfileHandler) Update(c echo.Context) error {
	var body profileReq
	if err := bind(c, &body); err != nil {
		return err
	}
	in := service.ProfileInput{
		Email:     body.Email,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Age:       body.Age,
		Phone:     body.Phone,
		Status:    body.Status,
	}
	return serveID(h.base, c, http.StatusOK, func(ctx context.Context, req *model.User, id uint64) (projection.Profile, error) {
		return h.profiles.Update(ctx, req, id, in, partial(c))
	})
}

func (h *ProfileHandler) Delete(c echo.Context) error {
	return remove(h.base, c, h.profiles.Delete)
}
