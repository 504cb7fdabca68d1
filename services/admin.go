package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	linkgate "github.com/cameronjim/linkgate"
)

// createIDAttempts bounds the retry loop when a freshly generated token
// id turns out to be taken. At 62^8 ids this should never trip; failing
// loudly beats looping.
const createIDAttempts = 3

// eventListLimit bounds every event listing.
const eventListLimit = 100

// TokenDirectory is the token-store view the admin surface needs:
// point access for issuance plus a scan for reporting.
type TokenDirectory interface {
	linkgate.TokenStore
	linkgate.TokenLister
}

// TokenSummary is one row of the admin token listing. ExpiresAt is
// epoch seconds, matching what the stores' TTL configuration consumes.
type TokenSummary struct {
	Token     string    `json:"token"`
	Campaign  string    `json:"campaign"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt int64     `json:"expiresAt"`
	ShortLink string    `json:"shortLink"`
}

// CreatedToken is the issuance response.
type CreatedToken struct {
	Token     string    `json:"token"`
	Campaign  string    `json:"campaign"`
	ShortLink string    `json:"shortLink"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// EventSummary is one row of the admin event listing.
type EventSummary struct {
	Token     string    `json:"token"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Campaign  string    `json:"campaign,omitempty"`
	IPHash    string    `json:"ipHash,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
}

// AdminService issues tokens and exposes token and event listings to an
// authenticated operator. Authentication itself lives in the transport
// layer; every method here assumes the caller is already authorized.
type AdminService struct {
	tokens            TokenDirectory
	events            linkgate.EventStore
	generator         *linkgate.TokenGenerator
	clock             linkgate.Clock
	shortLinkDomain   string
	defaultExpiryDays int
}

// NewAdminService creates an AdminService.
func NewAdminService(
	tokens TokenDirectory,
	events linkgate.EventStore,
	generator *linkgate.TokenGenerator,
	clock linkgate.Clock,
	shortLinkDomain string,
	defaultExpiryDays int,
) *AdminService {
	return &AdminService{
		tokens:            tokens,
		events:            events,
		generator:         generator,
		clock:             clock,
		shortLinkDomain:   shortLinkDomain,
		defaultExpiryDays: defaultExpiryDays,
	}
}

// ListTokens returns all tokens, newest first, each enriched with its
// short-link display URL.
func (s *AdminService) ListTokens(ctx context.Context) ([]TokenSummary, error) {
	tokens, err := s.tokens.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}

	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].CreatedAt.After(tokens[j].CreatedAt)
	})

	summaries := make([]TokenSummary, 0, len(tokens))
	for _, token := range tokens {
		summaries = append(summaries, TokenSummary{
			Token:     token.ID,
			Campaign:  token.Campaign,
			CreatedAt: token.CreatedAt,
			ExpiresAt: token.ExpiresAt.Unix(),
			ShortLink: s.shortLink(token.ID),
		})
	}
	return summaries, nil
}

// CreateToken issues a new token for the campaign, expiring after the
// given number of days (the configured default when days is zero or
// negative). Generation is retried a bounded number of times if the id
// is already taken.
func (s *AdminService) CreateToken(ctx context.Context, campaign string, days int) (*CreatedToken, error) {
	campaign = strings.TrimSpace(campaign)
	if campaign == "" {
		return nil, linkgate.ErrCampaignRequired
	}
	if days <= 0 {
		days = s.defaultExpiryDays
	}

	var id string
	for attempt := 0; attempt < createIDAttempts; attempt++ {
		candidate, err := s.generator.Generate()
		if err != nil {
			return nil, fmt.Errorf("generate token id: %w", err)
		}
		_, err = s.tokens.Get(ctx, candidate)
		if errors.Is(err, linkgate.ErrTokenNotFound) {
			id = candidate
			break
		}
		if err != nil {
			return nil, fmt.Errorf("check token id: %w", err)
		}
		log.Warn().Str("token", candidate).Msg("generated token id already in use, retrying")
	}
	if id == "" {
		return nil, errors.New("could not allocate a unique token id")
	}

	now := s.clock.Now().UTC()
	token := &linkgate.Token{
		ID:        id,
		Campaign:  campaign,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(days) * 24 * time.Hour),
	}
	if err := s.tokens.Put(ctx, token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}

	return &CreatedToken{
		Token:     token.ID,
		Campaign:  token.Campaign,
		ShortLink: s.shortLink(token.ID),
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// ListEvents returns up to 100 events, newest first. With a token id it
// uses the store's per-token ordered index; without one it takes a
// bounded scan. The scan gives no ordering guarantee, so results are
// re-sorted after fetch either way.
func (s *AdminService) ListEvents(ctx context.Context, tokenID string) ([]EventSummary, error) {
	var (
		events []*linkgate.Event
		err    error
	)
	if tokenID != "" {
		events, err = s.events.QueryByToken(ctx, tokenID, eventListLimit)
	} else {
		events, err = s.events.ScanRecent(ctx, eventListLimit)
	}
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].TS.After(events[j].TS)
	})

	summaries := make([]EventSummary, 0, len(events))
	for _, event := range events {
		summaries = append(summaries, EventSummary{
			Token:     event.Token,
			Timestamp: event.TS,
			Type:      event.Type,
			Campaign:  event.Campaign,
			IPHash:    event.IPHash,
			UserAgent: event.UserAgent,
		})
	}
	return summaries, nil
}

func (s *AdminService) shortLink(id string) string {
	return fmt.Sprintf("https://%s/%s", s.shortLinkDomain, id)
}
