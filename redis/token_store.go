// Package redis implements the token and event stores on Redis, as an
// alternative backend to MongoDB.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	linkgate "github.com/cameronjim/linkgate"
)

// expiryGrace keeps token keys around past their expiry so reporting
// can still list recently expired tokens. Eviction is advisory only.
const expiryGrace = 24 * time.Hour

// TokenStore implements linkgate.TokenStore and linkgate.TokenLister
// using Redis hashes, one per token id.
type TokenStore struct {
	client *redis.Client
	prefix string
}

// NewTokenStore creates a new TokenStore. Keys are namespaced under the
// given prefix.
func NewTokenStore(client *redis.Client, prefix string) *TokenStore {
	return &TokenStore{client: client, prefix: prefix}
}

func (s *TokenStore) key(id string) string {
	return fmt.Sprintf("%s:token:%s", s.prefix, id)
}

// Put implements linkgate.TokenStore.
func (s *TokenStore) Put(ctx context.Context, token *linkgate.Token) error {
	if err := token.Validate(); err != nil {
		return err
	}
	key := s.key(token.ID)

	entry := map[string]interface{}{
		"id":         token.ID,
		"campaign":   token.Campaign,
		"created_at": token.CreatedAt.Unix(),
		"expires_at": token.ExpiresAt.Unix(),
		"revoked":    strconv.FormatBool(token.Revoked),
	}
	if token.DestinationPath != "" {
		entry["destination_path"] = token.DestinationPath
	}
	if token.Variant != "" {
		entry["variant"] = token.Variant
	}

	if err := s.client.HSet(ctx, key, entry).Err(); err != nil {
		return fmt.Errorf("failed to set token in Redis: %w", err)
	}
	if err := s.client.ExpireAt(ctx, key, token.ExpiresAt.Add(expiryGrace)).Err(); err != nil {
		return fmt.Errorf("failed to set expiry for token in Redis: %w", err)
	}
	return nil
}

// Get implements linkgate.TokenStore.
func (s *TokenStore) Get(ctx context.Context, id string) (*linkgate.Token, error) {
	res, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get token from Redis: %w", err)
	}
	if len(res) == 0 {
		return nil, linkgate.ErrTokenNotFound
	}
	return decodeToken(res)
}

// List implements linkgate.TokenLister via a cursor scan over the token
// keyspace.
func (s *TokenStore) List(ctx context.Context) ([]*linkgate.Token, error) {
	var tokens []*linkgate.Token
	var cursor uint64
	pattern := s.key("*")

	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan tokens in Redis: %w", err)
		}
		for _, key := range keys {
			res, err := s.client.HGetAll(ctx, key).Result()
			if err != nil {
				return nil, fmt.Errorf("failed to read token %s: %w", key, err)
			}
			if len(res) == 0 {
				continue // expired between scan and read
			}
			token, err := decodeToken(res)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return tokens, nil
}

func decodeToken(res map[string]string) (*linkgate.Token, error) {
	createdAt, err := strconv.ParseInt(res["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad created_at", linkgate.ErrMalformedRecord)
	}
	expiresAt, err := strconv.ParseInt(res["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad expires_at", linkgate.ErrMalformedRecord)
	}
	revoked, _ := strconv.ParseBool(res["revoked"])

	token := &linkgate.Token{
		ID:              res["id"],
		Campaign:        res["campaign"],
		CreatedAt:       time.Unix(createdAt, 0).UTC(),
		ExpiresAt:       time.Unix(expiresAt, 0).UTC(),
		Revoked:         revoked,
		DestinationPath: res["destination_path"],
		Variant:         res["variant"],
	}
	if err := token.Validate(); err != nil {
		return nil, err
	}
	return token, nil
}
