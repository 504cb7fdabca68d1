package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	linkgate "github.com/cameronjim/linkgate"
	"github.com/cameronjim/linkgate/log"
	"github.com/cameronjim/linkgate/services"
)

// AdminAPI serves the operator surface behind the shared-secret bearer
// middleware. Unlike the public surface, failures here are structured
// JSON errors with distinct status codes.
type AdminAPI struct {
	admin  *services.AdminService
	logger log.Logger
}

// NewAdminAPI creates the admin API.
func NewAdminAPI(admin *services.AdminService, logger log.Logger) *AdminAPI {
	return &AdminAPI{admin: admin, logger: logger}
}

// RegisterRoutes registers the admin routes under /admin, all guarded
// by the bearer middleware.
func (a *AdminAPI) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	g := e.Group("/admin", auth)
	g.GET("/tokens", a.ListTokensHandler)
	g.POST("/tokens", a.CreateTokenHandler)
	g.GET("/events", a.ListEventsHandler)
	g.GET("/verify", a.VerifyHandler)
}

type createTokenRequest struct {
	Campaign string `json:"campaign"`
	Days     int    `json:"days"`
}

// ListTokensHandler returns every token, newest first.
func (a *AdminAPI) ListTokensHandler(c echo.Context) error {
	tokens, err := a.admin.ListTokens(c.Request().Context())
	if err != nil {
		a.logger.Error(c.Request().Context(), "failed to list tokens", err)
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"tokens": tokens})
}

// CreateTokenHandler issues a new token.
func (a *AdminAPI) CreateTokenHandler(c echo.Context) error {
	var req createTokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}

	created, err := a.admin.CreateToken(c.Request().Context(), req.Campaign, req.Days)
	if errors.Is(err, linkgate.ErrCampaignRequired) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Campaign name is required"})
	}
	if err != nil {
		a.logger.Error(c.Request().Context(), "failed to create token", err)
		return internalError(c)
	}
	return c.JSON(http.StatusCreated, created)
}

// ListEventsHandler returns recent events, optionally restricted to a
// single token via the token query parameter.
func (a *AdminAPI) ListEventsHandler(c echo.Context) error {
	events, err := a.admin.ListEvents(c.Request().Context(), c.QueryParam("token"))
	if err != nil {
		a.logger.Error(c.Request().Context(), "failed to list events", err)
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// VerifyHandler confirms the presented credential is valid. The bearer
// middleware has already done the work by the time this runs.
func (a *AdminAPI) VerifyHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"valid": true})
}

// internalError hides backend detail from the operator response; the
// cause is in the server log.
func internalError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
}
