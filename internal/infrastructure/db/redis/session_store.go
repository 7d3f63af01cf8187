package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/userhub/user-management/internal/infrastructure/session"
)

const sessionKeyPrefix = "sess:"

// SessionStore keeps session payloads as JSON strings under sess:<id>.
type SessionStore struct {
	client redis.Cmdable
}

var _ session.Store = (*SessionStore)(nil)

func NewSessionStore(client redis.Cmdable) *SessionStore {
	return &SessionStore{client: client}
}

// Load reports found=false when the key is missing or expired.
func (s *SessionStore) Load(ctx context.Context, id string) (session.Data, bool, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.Data{}, false, nil
		}
		return session.Data{}, false, fmt.Errorf("session load: %w", err)
	}

	var data session.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return session.Data{}, false, fmt.Errorf("session decode: %w", err)
	}
	return data, true, nil
}

func (s *SessionStore) Save(ctx context.Context, id string, data session.Data, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.client.Set(ctx, s.key(id), raw, ttl).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStore) key(id string) string {
	return sessionKeyPrefix + id
}
