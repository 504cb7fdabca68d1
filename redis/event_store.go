package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	linkgate "github.com/cameronjim/linkgate"
)

// eventListCap bounds every event list. Retention beyond the cap is a
// store concern, not the core's; trimming keeps the lists from growing
// without bound.
const eventListCap = 1000

// EventStore implements linkgate.EventStore using capped Redis lists:
// one per token plus a global recent list. LPUSH keeps both newest
// first.
type EventStore struct {
	client *redis.Client
	prefix string
}

// NewEventStore creates a new EventStore under the given key prefix.
func NewEventStore(client *redis.Client, prefix string) *EventStore {
	return &EventStore{client: client, prefix: prefix}
}

func (s *EventStore) tokenKey(tokenID string) string {
	return fmt.Sprintf("%s:events:token:%s", s.prefix, tokenID)
}

func (s *EventStore) recentKey() string {
	return fmt.Sprintf("%s:events:recent", s.prefix)
}

// Put implements linkgate.EventStore.
func (s *EventStore) Put(ctx context.Context, event *linkgate.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.tokenKey(event.Token), payload)
	pipe.LTrim(ctx, s.tokenKey(event.Token), 0, eventListCap-1)
	pipe.LPush(ctx, s.recentKey(), payload)
	pipe.LTrim(ctx, s.recentKey(), 0, eventListCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append event in Redis: %w", err)
	}
	return nil
}

// QueryByToken implements linkgate.EventStore. LPUSH ordering makes the
// list newest first already.
func (s *EventStore) QueryByToken(ctx context.Context, tokenID string, limit int) ([]*linkgate.Event, error) {
	return s.readList(ctx, s.tokenKey(tokenID), limit)
}

// ScanRecent implements linkgate.EventStore.
func (s *EventStore) ScanRecent(ctx context.Context, limit int) ([]*linkgate.Event, error) {
	return s.readList(ctx, s.recentKey(), limit)
}

func (s *EventStore) readList(ctx context.Context, key string, limit int) ([]*linkgate.Event, error) {
	raw, err := s.client.LRange(ctx, key, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read event list %s: %w", key, err)
	}
	events := make([]*linkgate.Event, 0, len(raw))
	for _, item := range raw {
		var event linkgate.Event
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event: %w", err)
		}
		events = append(events, &event)
	}
	return events, nil
}
