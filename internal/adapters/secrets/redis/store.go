// Package redis keeps session entries in a Redis keyspace so several terminals can share one login.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/bnema/fyp-cli/internal/domain"
	"github.com/bnema/fyp-cli/internal/ports"
)

const DefaultPrefix = "fyp"

type Store struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ ports.SecretStore = (*Store)(nil)

// NewStore builds a store over client. A zero ttl keeps entries until they are deleted.
func NewStore(client goredis.UniversalClient, prefix string, ttl time.Duration) *Store {
	prefix = strings.Trim(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	dataKey, err := s.dataKey(key)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, dataKey, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", dataKey, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	dataKey, err := s.dataKey(key)
	if err != nil {
		return "", err
	}

	value, err := s.client.Get(ctx, dataKey).Result()
	if errors.Is(err, goredis.Nil) {
		return "", fmt.Errorf("redis entry %q: %w", dataKey, domain.ErrSecretNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("redis get %q: %w", dataKey, err)
	}
	return value, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	dataKey, err := s.dataKey(key)
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, dataKey).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", dataKey, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (s *Store) dataKey(key string) (string, error) {
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return "", errors.New("session store key is empty")
	}
	return s.prefix + ":" + strings.ReplaceAll(key, "/", ":"), nil
}
