// Package cache provides in-memory store implementations used by the
// dev/test backend. Eviction mirrors the persistent stores' advisory
// TTL garbage collection; expiry is still enforced at read time by the
// validation service.
package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	linkgate "github.com/cameronjim/linkgate"
)

// MemoryTokenStore implements linkgate.TokenStore using ttlcache.
type MemoryTokenStore struct {
	cache *ttlcache.Cache[string, *linkgate.Token]
}

// NewMemoryTokenStore creates an in-memory token store with automatic
// cleanup of entries past their expiry.
func NewMemoryTokenStore() *MemoryTokenStore {
	cache := ttlcache.New(
		ttlcache.WithDisableTouchOnHit[string, *linkgate.Token](),
	)

	go cache.Start()

	return &MemoryTokenStore{cache: cache}
}

// Put implements linkgate.TokenStore.
func (s *MemoryTokenStore) Put(_ context.Context, token *linkgate.Token) error {
	if err := token.Validate(); err != nil {
		return err
	}
	ttl := ttlcache.NoTTL
	if !token.ExpiresAt.IsZero() {
		// Eviction is advisory; keep records around for a day past
		// expiry so reporting can still see recently expired tokens.
		ttl = time.Until(token.ExpiresAt.Add(24 * time.Hour))
	}
	s.cache.Set(token.ID, token, ttl)
	return nil
}

// Get implements linkgate.TokenStore.
func (s *MemoryTokenStore) Get(_ context.Context, id string) (*linkgate.Token, error) {
	item := s.cache.Get(id)
	if item == nil {
		return nil, linkgate.ErrTokenNotFound
	}
	return item.Value(), nil
}

// List implements linkgate.TokenLister.
func (s *MemoryTokenStore) List(_ context.Context) ([]*linkgate.Token, error) {
	items := s.cache.Items()
	tokens := make([]*linkgate.Token, 0, len(items))
	for _, item := range items {
		tokens = append(tokens, item.Value())
	}
	return tokens, nil
}

// Close stops the cleanup goroutine.
func (s *MemoryTokenStore) Close() error {
	s.cache.Stop()
	return nil
}
