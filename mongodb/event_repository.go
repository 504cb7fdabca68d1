package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	linkgate "github.com/cameronjim/linkgate"
)

// EventRepository implements linkgate.EventStore over a MongoDB
// collection. Events are insert-only.
type EventRepository struct {
	coll *mongo.Collection
}

// NewEventRepository wraps the given collection and ensures the
// (token, ts desc) index backing newest-first per-token queries.
func NewEventRepository(ctx context.Context, db *mongo.Database, collection string) (*EventRepository, error) {
	coll := db.Collection(collection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "token", Value: 1}, {Key: "ts", Value: -1}},
	})
	if err != nil {
		return nil, fmt.Errorf("ensure event index: %w", err)
	}
	return &EventRepository{coll: coll}, nil
}

// Put implements linkgate.EventStore.
func (r *EventRepository) Put(ctx context.Context, event *linkgate.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// QueryByToken implements linkgate.EventStore. The index makes the sort
// a range scan, newest first.
func (r *EventRepository) QueryByToken(ctx context.Context, tokenID string, limit int) ([]*linkgate.Event, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"token": tokenID},
		options.Find().
			SetSort(bson.D{{Key: "ts", Value: -1}}).
			SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("query events by token: %w", err)
	}
	var events []*linkgate.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

// ScanRecent implements linkgate.EventStore. No ordering guarantee; the
// admin service re-sorts after fetch.
func (r *EventRepository) ScanRecent(ctx context.Context, limit int) ([]*linkgate.Event, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	var events []*linkgate.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}
