package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const identityKey = "auth.identity"

// RequireIdentity authenticates the bearer token of every request.
func RequireIdentity(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return ErrUnauthenticated
			}
			id, err := a.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}
			WithIdentity(c, id)
			return next(c)
		}
	}
}

// FromContext returns the identity set by RequireIdentity, or nil.
func FromContext(c echo.Context) *Identity {
	id, _ := c.Get(identityKey).(*Identity)
	return id
}

// WithIdentity stores id on the context.
func WithIdentity(c echo.Context, id *Identity) {
	c.Set(identityKey, id)
}

// Require checks the policy before the handler runs.
func Require(p Policy, res Resource, act Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := p.Authorize(FromContext(c), res, act); err != nil {
				return err
			}
			return next(c)
		}
	}
}
