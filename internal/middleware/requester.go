package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/policy"
)

// RequesterKey is the echo context key under which LoadRequester stores
// the *model.User behind the token.
const RequesterKey = "requester"

// Resolver loads the user a token was issued to.
type Resolver interface {
	Requester(ctx context.Context, userID uint64) (*model.User, error)
}

var signedIn = policy.Pipeline{policy.Authenticated, policy.Active}

// LoadRequester resolves the user stored by JWTAuth and rejects deleted
// and deactivated accounts before later middleware runs.  Mount it ahead
// of any middleware that can answer without calling the handler, such as
// the response cache.
func LoadRequester(r Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			var u *model.User
			if id, ok := UserID(c); ok {
				var err error
				if u, err = r.Requester(ctx, id); err != nil {
					return err
				}
			}
			if err := signedIn.Evaluate(ctx, policy.Request{Requester: u}); err != nil {
				return err
			}
			c.Set(RequesterKey, u)
			return next(c)
		}
	}
}

// Requester returns the user stored by LoadRequester, if it ran.
func Requester(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(RequesterKey).(*model.User)
	return u, ok && u != nil
}
