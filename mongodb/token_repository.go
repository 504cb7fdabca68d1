package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	linkgate "github.com/cameronjim/linkgate"
)

// TokenRepository implements linkgate.TokenStore and
// linkgate.TokenLister over a MongoDB collection keyed by token id.
type TokenRepository struct {
	coll *mongo.Collection
}

// NewTokenRepository wraps the given collection and ensures the TTL
// index that garbage-collects rows past expiry. The index is advisory
// only; validation always compares expires_at against the clock.
func NewTokenRepository(ctx context.Context, db *mongo.Database, collection string) (*TokenRepository, error) {
	coll := db.Collection(collection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return nil, fmt.Errorf("ensure token TTL index: %w", err)
	}
	return &TokenRepository{coll: coll}, nil
}

// Get implements linkgate.TokenStore.
func (r *TokenRepository) Get(ctx context.Context, id string) (*linkgate.Token, error) {
	var token linkgate.Token
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&token)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, linkgate.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}
	if err := token.Validate(); err != nil {
		return nil, err
	}
	return &token, nil
}

// Put implements linkgate.TokenStore. Last write wins; issuance handles
// id conflicts with a read-before-write probe.
func (r *TokenRepository) Put(ctx context.Context, token *linkgate.Token) error {
	if err := token.Validate(); err != nil {
		return err
	}
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": token.ID}, token,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("put token: %w", err)
	}
	return nil
}

// List implements linkgate.TokenLister. Order is unspecified; the admin
// service sorts.
func (r *TokenRepository) List(ctx context.Context) ([]*linkgate.Token, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	var tokens []*linkgate.Token
	if err := cursor.All(ctx, &tokens); err != nil {
		return nil, fmt.Errorf("decode tokens: %w", err)
	}
	return tokens, nil
}
