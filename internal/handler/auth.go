package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/projection"
	"github.com/iliyamo/movie-catalog/internal/service"
)

// AuthAPI is the account and token flow behind the public auth routes.
type AuthAPI interface {
	Register(ctx context.Context, in service.Credentials) (projection.Session, error)
	Login(ctx context.Context, username, password string) (projection.Session, error)
	Logout(ctx context.Context, refresh string) error
	Refresh(ctx context.Context, refresh string) (projection.AccessGrant, error)
}

type AuthHandler struct {
	base
	auth AuthAPI
}

func NewAuthHandler(auth AuthAPI, timeout time.Duration) *AuthHandler {
	return &AuthHandler{base: base{timeout: timeout}, auth: auth}
}

type registerReq struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshReq struct {
	Refresh string `json:"refresh"`
}

// Register creates a user and returns a session with 201.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := h.withDeadline(c)
	defer cancel()
	sess, err := h.auth.Register(ctx, service.Credentials{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sess)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := h.withDeadline(c)
	defer cancel()
	sess, err := h.auth.Login(ctx, strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

// Logout revokes the posted refresh token and answers 205.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := h.withDeadline(c)
	defer cancel()
	if err := h.auth.Logout(ctx, req.Refresh); err != nil {
		return err
	}
	return c.NoContent(http.StatusResetContent)
}

// Refresh returns a new access token for a valid refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := h.withDeadline(c)
	defer cancel()
	grant, err := h.auth.Refresh(ctx, req.Refresh)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, grant)
}
