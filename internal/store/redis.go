package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rgehrsitz/fundsim/internal/domain"
)

const sessionKeyPrefix = "fundsim:session:"

// RedisStore keeps sessions in Redis and lets Redis expire them
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed session store. A nil clock uses time.Now.
func NewRedisStore(client *redis.Client, ttl time.Duration, now func() time.Time) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, now: clockOrNow(now)}
}

// NewRedisClient parses url and checks the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, state domain.SimulationState) error {
	if err := ValidateSessionID(id); err != nil {
		return err
	}
	data, err := encodeSession(state, s.now())
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+id, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (domain.SimulationState, error) {
	if err := ValidateSessionID(id); err != nil {
		return domain.SimulationState{}, err
	}
	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.SimulationState{}, ErrNotFound
		}
		return domain.SimulationState{}, fmt.Errorf("load session %s: %w", id, err)
	}
	env, err := decodeSession(data)
	if err != nil {
		return domain.SimulationState{}, err
	}
	return env.State, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := ValidateSessionID(id); err != nil {
		return err
	}
	if err := s.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}
