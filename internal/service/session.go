package service

import (
	"GoVault/model"
	"GoVault/utils"
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Session is the record behind an opaque token. It is a time-bounded
// capability referencing a user; Redis TTL is the expiry.
type Session struct {
	Token    string    `json:"-"`
	UserID   uint64    `json:"user_id"`
	Handle   string    `json:"handle"`
	IssuedAt time.Time `json:"issued_at"`
}

// Sessions issues and resolves opaque session tokens stored in Redis.
type Sessions struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessions creates the session manager.
func NewSessions(rdb *redis.Client, ttl time.Duration) *Sessions {
	return &Sessions{rdb: rdb, ttl: ttl}
}

func sessionKey(token string) string {
	return "session:" + token
}

// TTL returns the configured session lifetime.
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

// Issue creates a session for a user and returns the opaque token.
func (s *Sessions) Issue(ctx context.Context, user *model.User) (string, error) {
	token := utils.NewSessionToken()
	record := Session{
		UserID:   user.ID,
		Handle:   user.Handle,
		IssuedAt: time.Now(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, sessionKey(token), data, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve maps a token to its session. Missing or expired tokens fail
// with ErrUnauthorized.
func (s *Sessions) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	val, err := s.rdb.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	var record Session
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return nil, ErrUnauthorized
	}
	record.Token = token
	return &record, nil
}

// Revoke destroys a session. Revoking an unknown token is a no-op.
func (s *Sessions) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(token)).Err()
}
