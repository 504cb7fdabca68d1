package echo

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// BearerAuth guards admin routes with the shared operator secret,
// expected as "Authorization: Bearer <secret>". No store access happens
// before this check passes.
func BearerAuth(secret, secretBcrypt string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") ||
				!credentialMatches(parts[1], secret, secretBcrypt) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
			}
			return next(c)
		}
	}
}

// credentialMatches verifies the presented credential without leaking
// timing information. A configured bcrypt hash takes precedence over
// the plain secret.
func credentialMatches(presented, secret, secretBcrypt string) bool {
	if secretBcrypt != "" {
		return bcrypt.CompareHashAndPassword([]byte(secretBcrypt), []byte(presented)) == nil
	}
	if secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) == 1
}
