package chat

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "chat:session:"
	sessionTTL       = 24 * time.Hour
)

type redisStore struct {
	rdb *redis.Client
}

// NewRedisStore keeps sessions in redis so multiple instances can serve the
// same conversation. Sessions expire after a day of inactivity.
func NewRedisStore(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (r *redisStore) GetOrCreate(ctx context.Context, sessionID string) (*Session, error) {
	raw, err := r.rdb.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		fresh := NewSession()
		if err := r.Replace(ctx, sessionID, fresh); err != nil {
			return nil, err
		}
		return fresh, nil
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		// A corrupt value is unrecoverable; start the dialogue over.
		fresh := NewSession()
		if err := r.Replace(ctx, sessionID, fresh); err != nil {
			return nil, err
		}
		return fresh, nil
	}
	return &s, nil
}

func (r *redisStore) Replace(ctx context.Context, sessionID string, s *Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, sessionKey(sessionID), payload, sessionTTL).Err()
}

func (r *redisStore) Clear(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, sessionKey(sessionID)).Err()
}
