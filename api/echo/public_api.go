// Package echo exposes the link gate over HTTP using the echo
// framework: the public redirect/validate surface and the
// bearer-secret admin surface.
package echo

import (
	"net/http"

	"github.com/labstack/echo/v4"

	linkgate "github.com/cameronjim/linkgate"
	"github.com/cameronjim/linkgate/services"
)

// PublicAPI serves the unauthenticated surface. Failures never surface
// as HTTP errors here; they degrade to the expired redirect or a
// {valid:false} verdict.
type PublicAPI struct {
	access *services.AccessService
}

// NewPublicAPI creates the public API.
func NewPublicAPI(access *services.AccessService) *PublicAPI {
	return &PublicAPI{access: access}
}

// RegisterRoutes registers the public routes. The static /validate
// route takes precedence over the token parameter route.
func (a *PublicAPI) RegisterRoutes(e *echo.Echo) {
	e.GET("/validate", a.ValidateHandler)
	e.GET("/:token", a.RedirectHandler)
}

// RedirectHandler resolves a short link and issues the redirect. The
// response must not be cached anywhere: the target is tied to a single
// grant and its validity changes over time.
func (a *PublicAPI) RedirectHandler(c echo.Context) error {
	target := a.access.Redirect(c.Request().Context(), c.Param("token"), accessContext(c))
	c.Response().Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	return c.Redirect(http.StatusFound, target)
}

// ValidateHandler answers the client-side token check with a JSON
// verdict, always status 200.
func (a *PublicAPI) ValidateHandler(c echo.Context) error {
	result := a.access.Validate(c.Request().Context(), c.QueryParam("token"), accessContext(c))
	return c.JSON(http.StatusOK, result)
}

func accessContext(c echo.Context) services.AccessContext {
	addr := c.RealIP()
	if addr == "" {
		addr = linkgate.Unknown
	}
	return services.AccessContext{
		RemoteAddr: addr,
		UserAgent:  c.Request().UserAgent(),
		Referrer:   c.Request().Referer(),
	}
}
