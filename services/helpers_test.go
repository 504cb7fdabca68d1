package services

import (
	"context"
	"errors"
	"testing"
	"time"

	linkgate "github.com/cameronjim/linkgate"
	"github.com/cameronjim/linkgate/cache"
)

// fakeClock lets tests move time forward without sleeping. It starts
// at the real current time so the memory store's wall-clock eviction
// never races ahead of the fake time.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Now().UTC().Truncate(time.Second)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// failingTokenStore returns a storage error on every call.
type failingTokenStore struct{}

func (failingTokenStore) Get(context.Context, string) (*linkgate.Token, error) {
	return nil, errors.New("backend unavailable")
}

func (failingTokenStore) Put(context.Context, *linkgate.Token) error {
	return errors.New("backend unavailable")
}

func (failingTokenStore) List(context.Context) ([]*linkgate.Token, error) {
	return nil, errors.New("backend unavailable")
}

// failingEventStore rejects every write and read.
type failingEventStore struct{}

func (failingEventStore) Put(context.Context, *linkgate.Event) error {
	return errors.New("backend unavailable")
}

func (failingEventStore) QueryByToken(context.Context, string, int) ([]*linkgate.Event, error) {
	return nil, errors.New("backend unavailable")
}

func (failingEventStore) ScanRecent(context.Context, int) ([]*linkgate.Event, error) {
	return nil, errors.New("backend unavailable")
}

// guardedTokenStore fails the test on any access; used to prove fast
// paths never touch storage.
type guardedTokenStore struct {
	t *testing.T
}

func (g guardedTokenStore) Get(context.Context, string) (*linkgate.Token, error) {
	g.t.Fatal("token store accessed on a path that must not consult storage")
	return nil, nil
}

func (g guardedTokenStore) Put(context.Context, *linkgate.Token) error {
	g.t.Fatal("token store accessed on a path that must not consult storage")
	return nil
}

func storedToken(t *testing.T, store *cache.MemoryTokenStore, clock linkgate.Clock, id string, mutate func(*linkgate.Token)) *linkgate.Token {
	t.Helper()
	token := &linkgate.Token{
		ID:        id,
		Campaign:  "Launch",
		CreatedAt: clock.Now(),
		ExpiresAt: clock.Now().Add(30 * 24 * time.Hour),
	}
	if mutate != nil {
		mutate(token)
	}
	if err := store.Put(context.Background(), token); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	return token
}
