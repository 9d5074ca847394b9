package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/apperr"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

// JWTAuth validates the Bearer access token and stores its subject under
// UserIDKey.  Failures are returned as apperr errors and rendered by the
// echo error handler.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return apperr.Unauthenticated("authentication credentials were not provided")
			}
			uid, err := utils.ParseAccessToken(secret, strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")))
			if err != nil {
				return apperr.Wrap(apperr.KindUnauthenticated, "given token not valid for any token type", err)
			}
			c.Set(UserIDKey, uid)
			return next(c)
		}
	}
}
