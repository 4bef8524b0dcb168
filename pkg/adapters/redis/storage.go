// Package redis implements core.Storage on a Redis server.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/aretw0/dreamlog/pkg/core"
)

// DefaultPrefix namespaces keys written by the journal.
const DefaultPrefix = "dreamlog:"

// Storage stores each key as a Redis string under Prefix.
type Storage struct {
	client   *redis.Client
	prefix   string
	readOnly bool
}

// Config holds the connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	ReadOnly bool
}

// New connects to the server described by cfg.
func New(cfg Config) *Storage {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewWithClient(client, cfg.Prefix, cfg.ReadOnly)
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, prefix string, readOnly bool) *Storage {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Storage{client: client, prefix: prefix, readOnly: readOnly}
}

// Close closes the underlying client.
func (s *Storage) Close() error {
	return s.client.Close()
}

// Initialize checks connectivity.
func (s *Storage) Initialize(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	if s.readOnly {
		return core.ErrReadOnly
	}
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	if s.readOnly {
		return core.ErrReadOnly
	}
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "redis"
}

var _ core.Storage = (*Storage)(nil)
