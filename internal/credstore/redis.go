package credstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kickoffhq/kickoff-client/internal/domain"
	"github.com/kickoffhq/kickoff-client/pkg/database"
)

const redisOpTimeout = 3 * time.Second

// RedisStore persists credentials in a Redis hash, keyed per device. It is
// meant for headless deployments where several workers share one session.
type RedisStore struct {
	redis *database.Redis
	key   string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed credential store for the given device.
func NewRedisStore(redis *database.Redis, deviceID string) (*RedisStore, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("device ID is required for the redis credential store")
	}
	return &RedisStore{
		redis: redis,
		key:   fmt.Sprintf("credentials:%s", deviceID),
	}, nil
}

func (s *RedisStore) Get() (domain.Credentials, error) {
	ctx, cancel := s.opContext()
	defer cancel()

	fields, err := s.redis.Client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("failed to read credentials: %w", err)
	}

	return domain.Credentials{
		AccessToken:  fields[keyToken],
		RefreshToken: fields[keyRefreshToken],
		KeepLoggedIn: fields[keyKeepLoggedIn] == "true",
	}, nil
}

func (s *RedisStore) SetTokens(accessToken, refreshToken string) error {
	ctx, cancel := s.opContext()
	defer cancel()

	values := make(map[string]any, 2)
	if accessToken != "" {
		values[keyToken] = accessToken
	}
	if refreshToken != "" {
		values[keyRefreshToken] = refreshToken
	}
	if len(values) == 0 {
		return nil
	}

	if err := s.redis.Client.HSet(ctx, s.key, values).Err(); err != nil {
		return fmt.Errorf("failed to store tokens: %w", err)
	}
	return nil
}

func (s *RedisStore) SetKeepLoggedIn(on bool) error {
	ctx, cancel := s.opContext()
	defer cancel()

	value := "false"
	if on {
		value = "true"
	}
	if err := s.redis.Client.HSet(ctx, s.key, keyKeepLoggedIn, value).Err(); err != nil {
		return fmt.Errorf("failed to store keep-logged-in flag: %w", err)
	}
	return nil
}

func (s *RedisStore) User() (*domain.SessionUser, error) {
	ctx, cancel := s.opContext()
	defer cancel()

	raw, err := s.redis.Client.HGet(ctx, s.key, keyUser).Result()
	if err != nil || raw == "" {
		// Treat missing and unreadable snapshots alike.
		return nil, nil
	}

	var user domain.SessionUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil || !user.Valid() {
		_ = s.redis.Client.HDel(ctx, s.key, keyUser).Err()
		return nil, nil
	}
	return &user, nil
}

func (s *RedisStore) SetUser(user *domain.SessionUser) error {
	ctx, cancel := s.opContext()
	defer cancel()

	if user == nil {
		if err := s.redis.Client.HDel(ctx, s.key, keyUser).Err(); err != nil {
			return fmt.Errorf("failed to remove user snapshot: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user snapshot: %w", err)
	}
	if err := s.redis.Client.HSet(ctx, s.key, keyUser, string(raw)).Err(); err != nil {
		return fmt.Errorf("failed to store user snapshot: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear() error {
	ctx, cancel := s.opContext()
	defer cancel()

	if err := s.redis.Client.HDel(ctx, s.key, keyToken, keyRefreshToken, keyUser).Err(); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

func (s *RedisStore) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), redisOpTimeout)
}
