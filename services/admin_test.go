package services

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	linkgate "github.com/cameronjim/linkgate"
	"github.com/cameronjim/linkgate/cache"
)

func newAdminFixture(t *testing.T) (*AdminService, *cache.MemoryTokenStore, *cache.MemoryEventStore, *fakeClock) {
	t.Helper()
	tokens := cache.NewMemoryTokenStore()
	t.Cleanup(func() { tokens.Close() })
	events := cache.NewMemoryEventStore()
	clock := newFakeClock()

	admin := NewAdminService(tokens, events, linkgate.NewTokenGenerator(), clock, "go.example.com", 30)
	return admin, tokens, events, clock
}

func TestCreateTokenDefaults(t *testing.T) {
	admin, tokens, _, clock := newAdminFixture(t)

	created, err := admin.CreateToken(context.Background(), "Launch", 0)
	require.NoError(t, err)

	assert.Len(t, created.Token, linkgate.IDLength)
	assert.Equal(t, "Launch", created.Campaign)
	assert.Equal(t, fmt.Sprintf("https://go.example.com/%s", created.Token), created.ShortLink)
	assert.Equal(t, clock.Now().UTC().Add(30*24*time.Hour), created.ExpiresAt)

	stored, err := tokens.Get(context.Background(), created.Token)
	require.NoError(t, err)
	assert.Equal(t, "Launch", stored.Campaign)
	assert.False(t, stored.Revoked)
}

func TestCreateTokenCustomDays(t *testing.T) {
	admin, _, _, clock := newAdminFixture(t)

	created, err := admin.CreateToken(context.Background(), "Outreach", 7)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().UTC().Add(7*24*time.Hour), created.ExpiresAt)
}

func TestCreateTokenRequiresCampaign(t *testing.T) {
	admin, tokens, _, _ := newAdminFixture(t)

	for _, campaign := range []string{"", "   "} {
		_, err := admin.CreateToken(context.Background(), campaign, 30)
		assert.ErrorIs(t, err, linkgate.ErrCampaignRequired)
	}

	listed, err := tokens.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listed, "no row may be written for a rejected request")
}

func TestCreateTokenRetriesOnIDCollision(t *testing.T) {
	tokens := cache.NewMemoryTokenStore()
	defer tokens.Close()
	clock := newFakeClock()

	// First two 16-byte blocks generate "AAAAAAAA", the third "BBBBBBBB".
	source := bytes.NewBuffer(nil)
	source.Write(bytes.Repeat([]byte{0}, 16))
	source.Write(bytes.Repeat([]byte{0}, 16))
	source.Write(bytes.Repeat([]byte{1}, 16))
	generator := linkgate.NewTokenGeneratorWithSource(source)

	storedToken(t, tokens, clock, "AAAAAAAA", nil)

	admin := NewAdminService(tokens, cache.NewMemoryEventStore(), generator, clock, "go.example.com", 30)
	created, err := admin.CreateToken(context.Background(), "Launch", 30)
	require.NoError(t, err)
	assert.Equal(t, "BBBBBBBB", created.Token)
}

func TestCreateTokenGivesUpAfterBoundedRetries(t *testing.T) {
	tokens := cache.NewMemoryTokenStore()
	defer tokens.Close()
	clock := newFakeClock()

	source := bytes.NewBuffer(nil)
	for i := 0; i < createIDAttempts; i++ {
		source.Write(bytes.Repeat([]byte{0}, 16))
	}
	generator := linkgate.NewTokenGeneratorWithSource(source)

	storedToken(t, tokens, clock, "AAAAAAAA", nil)

	admin := NewAdminService(tokens, cache.NewMemoryEventStore(), generator, clock, "go.example.com", 30)
	_, err := admin.CreateToken(context.Background(), "Launch", 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unique token id")
}

func TestCreateTokenStorageErrorSurfaces(t *testing.T) {
	admin := NewAdminService(failingTokenStore{}, cache.NewMemoryEventStore(),
		linkgate.NewTokenGenerator(), newFakeClock(), "go.example.com", 30)

	_, err := admin.CreateToken(context.Background(), "Launch", 30)
	require.Error(t, err)
}

func TestListTokensNewestFirst(t *testing.T) {
	admin, tokens, _, clock := newAdminFixture(t)

	for i, id := range []string{"tokenAA1", "tokenBB2", "tokenCC3"} {
		storedToken(t, tokens, clock, id, func(tok *linkgate.Token) {
			tok.CreatedAt = clock.Now().Add(time.Duration(i) * time.Hour)
			tok.ExpiresAt = tok.CreatedAt.Add(30 * 24 * time.Hour)
		})
	}

	listed, err := admin.ListTokens(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 3)

	assert.Equal(t, "tokenCC3", listed[0].Token)
	assert.Equal(t, "tokenAA1", listed[2].Token)
	for i := 1; i < len(listed); i++ {
		assert.True(t, listed[i-1].CreatedAt.After(listed[i].CreatedAt))
	}
	for _, summary := range listed {
		assert.Equal(t, fmt.Sprintf("https://go.example.com/%s", summary.Token), summary.ShortLink)
		assert.NotZero(t, summary.ExpiresAt)
	}
}

func TestListEventsForToken(t *testing.T) {
	admin, _, events, clock := newAdminFixture(t)

	for i := 0; i < 5; i++ {
		err := events.Put(context.Background(), &linkgate.Event{
			ID:    fmt.Sprintf("evt-%d", i),
			Token: "tokenAA1",
			TS:    clock.Now().Add(time.Duration(i) * time.Minute),
			Type:  linkgate.EventOpen,
		})
		require.NoError(t, err)
	}
	require.NoError(t, events.Put(context.Background(), &linkgate.Event{
		ID: "evt-other", Token: "tokenBB2", TS: clock.Now(), Type: linkgate.EventValidate,
	}))

	listed, err := admin.ListEvents(context.Background(), "tokenAA1")
	require.NoError(t, err)
	require.Len(t, listed, 5)
	for i := 1; i < len(listed); i++ {
		assert.True(t, listed[i-1].Timestamp.After(listed[i].Timestamp),
			"per-token listing must be strictly newest first")
	}
	for _, summary := range listed {
		assert.Equal(t, "tokenAA1", summary.Token)
	}
}

func TestListEventsGlobalBoundAndOrder(t *testing.T) {
	admin, _, events, clock := newAdminFixture(t)

	for i := 0; i < 150; i++ {
		err := events.Put(context.Background(), &linkgate.Event{
			ID:    fmt.Sprintf("evt-%d", i),
			Token: "tokenAA1",
			TS:    clock.Now().Add(time.Duration(i) * time.Second),
			Type:  linkgate.EventOpen,
		})
		require.NoError(t, err)
	}

	listed, err := admin.ListEvents(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, listed, 100, "global listing is bounded to 100 entries")
	for i := 1; i < len(listed); i++ {
		assert.False(t, listed[i-1].Timestamp.Before(listed[i].Timestamp),
			"service must re-sort the unordered scan")
	}
}

func TestListEventsStorageError(t *testing.T) {
	admin := NewAdminService(failingTokenStore{}, failingEventStore{},
		linkgate.NewTokenGenerator(), newFakeClock(), "go.example.com", 30)

	_, err := admin.ListEvents(context.Background(), "")
	require.Error(t, err)
	_, err = admin.ListTokens(context.Background())
	require.Error(t, err)
}
