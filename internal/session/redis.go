package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/p-n-ai/cogni/internal/platform/cache"
)

// RedisStore keeps one session per profile under cogni:session:<profile>.
type RedisStore struct {
	cache   *cache.Cache
	profile string
	ttl     time.Duration
}

// NewRedisStore stores sessions in c. A zero ttl keeps them until logout.
func NewRedisStore(c *cache.Cache, profile string, ttl time.Duration) *RedisStore {
	if profile == "" {
		profile = "default"
	}
	return &RedisStore{cache: c, profile: profile, ttl: ttl}
}

func (s *RedisStore) key() string {
	return s.cache.Key("session", s.profile)
}

func (s *RedisStore) Load(ctx context.Context) (*Session, error) {
	data, err := s.cache.Client.Get(ctx, s.key()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	if sess == nil || sess.Token == "" {
		return errors.New("session token is required")
	}
	cp := *sess
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}

	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.cache.Client.Set(ctx, s.key(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.cache.Client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
