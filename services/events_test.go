package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	linkgate "github.com/cameronjim/linkgate"
	"github.com/cameronjim/linkgate/cache"
)

func TestLogFillsDefaults(t *testing.T) {
	events := cache.NewMemoryEventStore()
	clock := newFakeClock()
	svc := NewEventService(events, clock, "test-salt")

	token := &linkgate.Token{ID: "Ab3dEf9h", Campaign: "Launch"}
	svc.Log(context.Background(), token, linkgate.EventOpen, AccessContext{})

	recorded, err := events.QueryByToken(context.Background(), "Ab3dEf9h", 1)
	require.NoError(t, err)
	require.Len(t, recorded, 1)

	event := recorded[0]
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, linkgate.Unknown, event.UserAgent)
	assert.Equal(t, linkgate.Unknown, event.IPHash)
	assert.Empty(t, event.Referrer)
	assert.Equal(t, clock.Now().UTC(), event.TS)
	assert.Equal(t, "Launch", event.Campaign, "campaign is denormalized onto the event")
}

func TestLogHashesAddressWithSalt(t *testing.T) {
	events := cache.NewMemoryEventStore()
	clock := newFakeClock()
	svc := NewEventService(events, clock, "salt-one")

	token := &linkgate.Token{ID: "Ab3dEf9h", Campaign: "Launch"}
	svc.Log(context.Background(), token, linkgate.EventValidate, AccessContext{
		RemoteAddr: "203.0.113.7",
		UserAgent:  "curl/8.0",
		Referrer:   "https://mail.example.com/",
	})

	recorded, err := events.QueryByToken(context.Background(), "Ab3dEf9h", 1)
	require.NoError(t, err)
	require.Len(t, recorded, 1)

	event := recorded[0]
	assert.Equal(t, linkgate.HashIP("203.0.113.7", "salt-one"), event.IPHash)
	assert.Equal(t, "curl/8.0", event.UserAgent)
	assert.Equal(t, "https://mail.example.com/", event.Referrer)
}
