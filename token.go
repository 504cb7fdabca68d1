// Package linkgate contains the domain model for the campaign link gate:
// single-use-campaign access tokens, the access events recorded against
// them, and the store interfaces the service layer consumes.
package linkgate

import (
	"fmt"
	"time"
)

// Event types recorded against a token.
const (
	// EventValidate is fired by the client-side pre-flight check.
	EventValidate = "validate"
	// EventOpen is fired when a short link is opened and redirected.
	EventOpen = "open"
)

// Token is a single grant of access to the gated site, bound to an
// outreach campaign and an absolute expiry. Tokens are created once,
// never updated (revocation flips a flag out of band) and never deleted;
// expiry is enforced at read time, the stores' TTL eviction is advisory.
type Token struct {
	ID              string    `json:"token" bson:"_id"`
	Campaign        string    `json:"campaign" bson:"campaign"`
	CreatedAt       time.Time `json:"createdAt" bson:"created_at"`
	ExpiresAt       time.Time `json:"expiresAt" bson:"expires_at"`
	Revoked         bool      `json:"revoked,omitempty" bson:"revoked,omitempty"`
	DestinationPath string    `json:"destinationPath,omitempty" bson:"destination_path,omitempty"`
	Variant         string    `json:"variant,omitempty" bson:"variant,omitempty"`
}

// Validate reports whether the record is well formed enough to be stored
// or served. Store implementations reject malformed rows at the boundary
// instead of propagating half-empty records.
func (t *Token) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil token", ErrMalformedRecord)
	}
	if t.ID == "" {
		return fmt.Errorf("%w: empty token id", ErrMalformedRecord)
	}
	if t.Campaign == "" {
		return fmt.Errorf("%w: empty campaign", ErrMalformedRecord)
	}
	if !t.ExpiresAt.IsZero() && !t.ExpiresAt.After(t.CreatedAt) {
		return fmt.Errorf("%w: expiry not after creation", ErrMalformedRecord)
	}
	return nil
}

// Event is an immutable record of one access attempt against a token.
// The referenced token is not checked for existence; orphaned events are
// tolerated.
type Event struct {
	ID        string    `json:"id" bson:"_id"`
	Token     string    `json:"token" bson:"token"`
	TS        time.Time `json:"timestamp" bson:"ts"`
	Type      string    `json:"type" bson:"type"`
	Campaign  string    `json:"campaign,omitempty" bson:"campaign,omitempty"`
	IPHash    string    `json:"ipHash,omitempty" bson:"ip_hash,omitempty"`
	UserAgent string    `json:"userAgent,omitempty" bson:"user_agent,omitempty"`
	Referrer  string    `json:"referrer,omitempty" bson:"referrer,omitempty"`
}

// Validate checks the fields every stored event must carry.
func (e *Event) Validate() error {
	if e == nil {
		return fmt.Errorf("%w: nil event", ErrMalformedRecord)
	}
	if e.ID == "" {
		return fmt.Errorf("%w: empty event id", ErrMalformedRecord)
	}
	if e.Token == "" {
		return fmt.Errorf("%w: empty token reference", ErrMalformedRecord)
	}
	if e.Type != EventValidate && e.Type != EventOpen {
		return fmt.Errorf("%w: unknown event type %q", ErrMalformedRecord, e.Type)
	}
	return nil
}
