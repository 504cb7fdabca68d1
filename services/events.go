package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	linkgate "github.com/cameronjim/linkgate"
)

// AccessContext carries the request attributes recorded on an event.
// Any field may be empty when the transport could not determine it.
type AccessContext struct {
	RemoteAddr string
	UserAgent  string
	Referrer   string
}

// EventService records access events against tokens. Logging is
// best-effort: a failed write is reported operationally and never
// affects the caller's response.
type EventService struct {
	events linkgate.EventStore
	clock  linkgate.Clock
	ipSalt string
}

// NewEventService creates an EventService. The salt feeds the one-way
// client-address digest and is process-wide configuration.
func NewEventService(events linkgate.EventStore, clock linkgate.Clock, ipSalt string) *EventService {
	return &EventService{events: events, clock: clock, ipSalt: ipSalt}
}

// Log appends exactly one event for the given token. The raw client
// address never reaches the store; only its salted, truncated digest
// does.
func (s *EventService) Log(ctx context.Context, token *linkgate.Token, eventType string, access AccessContext) {
	userAgent := access.UserAgent
	if userAgent == "" {
		userAgent = linkgate.Unknown
	}
	event := &linkgate.Event{
		ID:        uuid.NewString(),
		Token:     token.ID,
		TS:        s.clock.Now().UTC(),
		Type:      eventType,
		Campaign:  token.Campaign,
		IPHash:    linkgate.HashIP(access.RemoteAddr, s.ipSalt),
		UserAgent: userAgent,
		Referrer:  access.Referrer,
	}
	if err := s.events.Put(ctx, event); err != nil {
		log.Error().Err(err).
			Str("token", token.ID).
			Str("type", eventType).
			Msg("failed to record access event")
	}
}
