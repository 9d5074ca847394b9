// Package handler adapts the service layer to echo.  Handlers bind and
// validate the request, resolve the requester, call one service method
// and write its projection.  Errors are returned to echo and rendered by
// ErrorHandler.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/apperr"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/model"
)

// Identity resolves the user behind an authenticated request.
type Identity interface {
	Requester(ctx context.Context, userID uint64) (*model.User, error)
}

// base is embedded by every handler that serves authenticated routes.
type base struct {
	identity Identity
	timeout  time.Duration
}

// withDeadline derives the per-request deadline from the request context.
func (b base) withDeadline(c echo.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return context.WithCancel(c.Request().Context())
	}
	return context.WithTimeout(c.Request().Context(), b.timeout)
}

// requester loads the user stored by JWTAuth, reusing the one resolved by
// LoadRequester when the route mounts it.  It returns nil for anonymous
// requests; the service decides whether that is allowed.
func (b base) requester(ctx context.Context, c echo.Context) (*model.User, error) {
	if u, ok := middleware.Requester(c); ok {
		return u, nil
	}
	id, ok := middleware.UserID(c)
	if !ok {
		return nil, nil
	}
	return b.identity.Requester(ctx, id)
}

// bind decodes the body into dst and validates it.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return apperr.Validation("malformed request body", nil)
	}
	return c.Validate(dst)
}

// pathID parses the :id parameter.  A malformed id is reported as not
// found, the same as an id that does not exist.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.NotFound("not found")
	}
	return id, nil
}

// serve resolves the requester, runs fn under the request deadline and
// writes its result with status.
func serve[T any](b base, c echo.Context, status int, fn func(context.Context, *model.User) (T, error)) error {
	ctx, cancel := b.withDeadline(c)
	defer cancel()
	req, err := b.requester(ctx, c)
	if err != nil {
		return err
	}
	out, err := fn(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(status, out)
}

// serveID is serve for routes addressed by :id.
func serveID[T any](b base, c echo.Context, status int, fn func(context.Context, *model.User, uint64) (T, error)) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	return serve(b, c, status, func(ctx context.Context, req *model.User) (T, error) {
		return fn(ctx, req, id)
	})
}

// remove runs a delete by :id and answers 204.
func remove(b base, c echo.Context, fn func(context.Context, *model.User, uint64) error) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := b.withDeadline(c)
	defer cancel()
	req, err := b.requester(ctx, c)
	if err != nil {
		return err
	}
	if err := fn(ctx, req, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// partial reports whether the request is a PATCH.
func partial(c echo.Context) bool { return c.Request().Method == http.MethodPatch }
