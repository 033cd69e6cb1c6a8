package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// defaultHashKey is the Redis hash holding all rule configuration fields.
const defaultHashKey = "searchbox:rules"

// RedisStore implements Store on a single Redis hash.
//
// All four fields live in one hash so a load is one HGETALL and a save is
// one HSET: both are single commands, so readers never observe a torn
// multi-field update.
type RedisStore struct {
	rdb     *redis.Client
	hashKey string
}

var _ Store = (*RedisStore)(nil)

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithHashKey overrides the Redis hash key holding the settings.
func WithHashKey(key string) RedisOption {
	return func(s *RedisStore) {
		if key != "" {
			s.hashKey = key
		}
	}
}

// NewRedisStore creates a rule configuration store on the given client.
// The client is injected so connection management stays with the caller.
func NewRedisStore(client *redis.Client, opts ...RedisOption) (*RedisStore, error) {
	if client == nil {
		return nil, ErrClientRequired
	}
	s := &RedisStore{
		rdb:     client,
		hashKey: defaultHashKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Load reads all settings fields in one HGETALL.
func (s *RedisStore) Load(ctx context.Context) (Settings, error) {
	fields, err := s.rdb.HGetAll(ctx, s.hashKey).Result()
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	// A missing hash yields an empty map: zero-value settings.
	return Settings{
		CustomTypes: fields[KeyCustomTypes],
		Excluded:    fields[KeyExcluded],
		Highest:     fields[KeyHighest],
		Lowest:      fields[KeyLowest],
	}, nil
}

// Save writes all settings fields in one HSET.
func (s *RedisStore) Save(ctx context.Context, settings Settings) error {
	err := s.rdb.HSet(ctx, s.hashKey, map[string]any{
		KeyCustomTypes: settings.CustomTypes,
		KeyExcluded:    settings.Excluded,
		KeyHighest:     settings.Highest,
		KeyLowest:      settings.Lowest,
	}).Err()
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Get reads a single field. An unset field reads as empty, not as an error.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	value, err := s.rdb.HGet(ctx, s.hashKey, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Set writes a single field.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.rdb.HSet(ctx, s.hashKey, key, value).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func validateKey(key string) error {
	switch key {
	case KeyCustomTypes, KeyExcluded, KeyHighest, KeyLowest:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
}
