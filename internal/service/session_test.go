package service

import (
	"GoVault/config"
	"GoVault/model"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

var testRedis *redis.Client

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testRedis == nil {
		config.InitConfig()
		testRedis = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", config.AppConfig.RedisHost, config.AppConfig.RedisPort),
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisDB,
		})
	}
	if err := testRedis.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	return testRedis
}

func TestSessionIssueResolveRevoke(t *testing.T) {
	rdb := setupRedis(t)
	sessions := NewSessions(rdb, time.Minute)
	ctx := context.Background()

	user := &model.User{ID: 42, Handle: "alice"}
	token, err := sessions.Issue(ctx, user)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if token == "" {
		t.Fatal("token should not be empty")
	}

	got, err := sessions.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.UserID != 42 || got.Handle != "alice" || got.Token != token {
		t.Fatalf("unexpected session: %+v", got)
	}

	if err := sessions.Revoke(ctx, token); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if _, err := sessions.Resolve(ctx, token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expect ErrUnauthorized after revoke, got %v", err)
	}
}

func TestSessionUnknownToken(t *testing.T) {
	rdb := setupRedis(t)
	sessions := NewSessions(rdb, time.Minute)
	ctx := context.Background()

	if _, err := sessions.Resolve(ctx, "no-such-token"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expect ErrUnauthorized, got %v", err)
	}
	if _, err := sessions.Resolve(ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expect ErrUnauthorized for empty token, got %v", err)
	}
	// Revoking something that does not exist is fine.
	if err := sessions.Revoke(ctx, "no-such-token"); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	rdb := setupRedis(t)
	sessions := NewSessions(rdb, 50*time.Millisecond)
	ctx := context.Background()

	token, err := sessions.Issue(ctx, &model.User{ID: 7, Handle: "bob"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if _, err := sessions.Resolve(ctx, token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expect ErrUnauthorized after expiry, got %v", err)
	}
}

func TestSessionTokensAreUnique(t *testing.T) {
	rdb := setupRedis(t)
	sessions := NewSessions(rdb, time.Minute)
	ctx := context.Background()

	user := &model.User{ID: 1, Handle: "alice"}
	first, err := sessions.Issue(ctx, user)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	second, err := sessions.Issue(ctx, user)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if first == second {
		t.Fatal("two logins must get distinct tokens")
	}
	// Both stay valid until revoked.
	if _, err := sessions.Resolve(ctx, first); err != nil {
		t.Fatalf("first token should resolve: %v", err)
	}
	if err := sessions.Revoke(ctx, first); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if _, err := sessions.Resolve(ctx, second); err != nil {
		t.Fatalf("second token should survive first's revoke: %v", err)
	}
	_ = sessions.Revoke(ctx, second)
}
