package session

import (
	"context"
	"fmt"

	"github.com/go-redis/redis"
)

// RedisStore keeps the session under two namespaced string keys.
type RedisStore struct {
	client  *redis.Client
	profile string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, profile string) *RedisStore {
	return &RedisStore{client: client, profile: profile}
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context) (Snapshot, error) {
	values, err := s.client.WithContext(ctx).MGet(
		Key(s.profile, KeyAuthToken),
		Key(s.profile, KeyCurrentUser),
	).Result()
	if err != nil {
		return Snapshot{}, fmt.Errorf("load session from redis: %w", err)
	}

	token, _ := values[0].(string)
	rawUser, _ := values[1].(string)
	user, err := decodeUser(rawUser)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Token: token, User: user}, nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	rawUser, err := encodeUser(snap.User)
	if err != nil {
		return err
	}
	pipe := s.client.WithContext(ctx).TxPipeline()
	pipe.Set(Key(s.profile, KeyAuthToken), snap.Token, 0)
	pipe.Set(Key(s.profile, KeyCurrentUser), rawUser, 0)
	if _, err := pipe.Exec(); err != nil {
		return fmt.Errorf("save session to redis: %w", err)
	}
	return nil
}

// Clear implements Store.
func (s *RedisStore) Clear(ctx context.Context) error {
	err := s.client.WithContext(ctx).Del(
		Key(s.profile, KeyAuthToken),
		Key(s.profile, KeyCurrentUser),
	).Err()
	if err != nil {
		return fmt.Errorf("clear session in redis: %w", err)
	}
	return nil
}
