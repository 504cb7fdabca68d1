// Package services implements the link gate's core behavior: token
// validation, access-event logging, the public redirect/validate
// gateway and the admin surface.
package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	linkgate "github.com/cameronjim/linkgate"
)

// ValidationService decides whether a token id currently grants access.
// Both public entry points share this one implementation; it is pure
// (no side effects) and recomputes from store state on every call.
type ValidationService struct {
	tokens linkgate.TokenStore
	clock  linkgate.Clock
}

// NewValidationService creates a ValidationService.
func NewValidationService(tokens linkgate.TokenStore, clock linkgate.Clock) *ValidationService {
	return &ValidationService{tokens: tokens, clock: clock}
}

// Validate returns the token and true when id grants access. A missing,
// revoked or expired token returns false, as does any storage error:
// the public caller never learns which failure mode occurred.
func (s *ValidationService) Validate(ctx context.Context, id string) (*linkgate.Token, bool) {
	token, err := s.tokens.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, linkgate.ErrTokenNotFound) {
			// Fail closed: storage trouble looks like an invalid token.
			log.Warn().Err(err).Str("token", id).Msg("token lookup failed, treating as invalid")
		}
		return nil, false
	}
	if token.Revoked {
		return nil, false
	}
	if !token.ExpiresAt.IsZero() && token.ExpiresAt.Before(s.clock.Now()) {
		return nil, false
	}
	return token, true
}
