package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
	ErrWrongType = errors.New("cache: incompatible destination type")
)

// Service defines cache operations used by the market-data layer.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
	Expire(ctx context.Context, key string, expiration time.Duration) (bool, error)
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// SetJSON marshals value to JSON and stores it under key.
func SetJSON(ctx context.Context, c Service, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, string(b), ttl)
}

// GetJSON retrieves a JSON value stored by SetJSON and unmarshals it into T.
func GetJSON[T any](ctx context.Context, c Service, key string) (*T, error) {
	var raw string
	if err := c.Get(ctx, key, &raw); err != nil {
		return nil, err
	}
	var obj T
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}
