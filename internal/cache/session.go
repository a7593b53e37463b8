package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/contactsmgr/contacts/internal/model"
)

// sessionPrefix is the Redis key prefix for signed-in sessions.
const sessionPrefix = "session:"

// SaveSession stores a session until its ExpiresAt.
func (c *Cache) SaveSession(ctx context.Context, s *model.Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	data, err := encodeSession(s)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, sessionPrefix+s.Token, data, ttl).Err()
}

// GetSession retrieves a session by token.
// Returns nil if not found (cache miss) or expired.
func (c *Cache) GetSession(ctx context.Context, token string) (*model.Session, error) {
	data, err := c.client.Get(ctx, sessionPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	s, err := decodeSession(token, data)
	if err != nil {
		// Corrupted entry - treat as signed out
		return nil, nil //nolint:nilerr
	}
	if s.IsExpired() {
		return nil, nil
	}
	return s, nil
}

// DeleteSession removes a session. Used on logout.
func (c *Cache) DeleteSession(ctx context.Context, token string) error {
	return c.client.Del(ctx, sessionPrefix+token).Err()
}

func encodeSession(s *model.Session) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return data, nil
}

func decodeSession(token string, data []byte) (*model.Session, error) {
	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	s.Token = token
	return &s, nil
}
