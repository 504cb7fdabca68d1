package linkgate

import (
	"context"
	"time"
)

// TokenStore is the key-value abstraction over token records. Point
// get/put only; the access path never scans.
type TokenStore interface {
	// Get retrieves a token by id. Returns ErrTokenNotFound when absent.
	Get(ctx context.Context, id string) (*Token, error)

	// Put stores a token record, overwriting any existing record with
	// the same id.
	Put(ctx context.Context, token *Token) error
}

// TokenLister is the reporting-side extension of TokenStore. Only the
// admin surface consumes it.
type TokenLister interface {
	// List returns all token records in no particular order.
	List(ctx context.Context) ([]*Token, error)
}

// EventStore is the append-only abstraction over access events.
type EventStore interface {
	// Put appends one event record.
	Put(ctx context.Context, event *Event) error

	// QueryByToken returns up to limit events for the given token id,
	// newest first.
	QueryByToken(ctx context.Context, tokenID string, limit int) ([]*Event, error)

	// ScanRecent returns up to limit events across all tokens. No
	// ordering is guaranteed; callers re-sort.
	ScanRecent(ctx context.Context, limit int) ([]*Event, error)
}

// Clock abstracts the wall clock so validation and event timestamps can
// be driven by a fake in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }
