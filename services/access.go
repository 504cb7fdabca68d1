package services

import (
	"context"
	"strings"

	linkgate "github.com/cameronjim/linkgate"
)

// defaultVariant is surfaced to the client when the token carries none.
const defaultVariant = "general"

// VerificationResult is the JSON verdict returned by the client-side
// validation endpoint.
type VerificationResult struct {
	Valid           bool   `json:"valid"`
	Campaign        string `json:"campaign,omitempty"`
	Variant         string `json:"variant,omitempty"`
	DestinationPath string `json:"destinationPath,omitempty"`
	Error           string `json:"error,omitempty"`
}

// AccessService composes validation and event logging behind the two
// public entry points: the short-link redirect and the client-side
// validation call.
type AccessService struct {
	validator *ValidationService
	events    *EventService
	siteURL   string
}

// NewAccessService creates an AccessService. siteURL is the base the
// redirect targets are built on.
func NewAccessService(validator *ValidationService, events *EventService, siteURL string) *AccessService {
	return &AccessService{
		validator: validator,
		events:    events,
		siteURL:   strings.TrimSuffix(siteURL, "/"),
	}
}

// Redirect resolves the target for an opened short link. Invalid or
// missing tokens land on the expired page; the caller never learns why.
// A valid open is recorded as an "open" event, but a logging failure
// never blocks the redirect.
func (s *AccessService) Redirect(ctx context.Context, id string, access AccessContext) string {
	if id == "" {
		return s.expiredLocation()
	}
	token, ok := s.validator.Validate(ctx, id)
	if !ok {
		return s.expiredLocation()
	}

	s.events.Log(ctx, token, linkgate.EventOpen, access)

	destination := token.DestinationPath
	if destination == "" {
		destination = "/t/" + token.ID
	}
	if !strings.HasPrefix(destination, "/") {
		destination = "/" + destination
	}
	return s.siteURL + destination
}

// Validate answers the client-side pre-flight check. An empty id short-
// circuits without touching storage. Unlike Redirect, nothing is logged
// for an invalid token; only successful validations produce an event.
func (s *AccessService) Validate(ctx context.Context, id string, access AccessContext) VerificationResult {
	if id == "" {
		return VerificationResult{Valid: false, Error: "No token provided"}
	}
	token, ok := s.validator.Validate(ctx, id)
	if !ok {
		return VerificationResult{Valid: false}
	}

	s.events.Log(ctx, token, linkgate.EventValidate, access)

	variant := token.Variant
	if variant == "" {
		variant = defaultVariant
	}
	return VerificationResult{
		Valid:           true,
		Campaign:        token.Campaign,
		Variant:         variant,
		DestinationPath: token.DestinationPath,
	}
}

func (s *AccessService) expiredLocation() string {
	return s.siteURL + "/expired"
}
