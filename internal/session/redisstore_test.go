package session_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"

	"taskdash/internal/session"
)

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisStoreIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}

	prefix := "taskdash-test:" + t.Name() + ":"
	store := session.NewRedisStore(client, prefix)
	t.Cleanup(func() { store.Clear(context.Background()) })

	if _, err := store.Get(ctx); !errors.Is(err, session.ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}

	if err := store.Set(ctx, "tok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, err := store.Get(ctx); err != nil || got != "tok" {
		t.Errorf("expected tok, got %q (err %v)", got, err)
	}

	// Residue under the prefix must go too
	client.Set(ctx, prefix+"user-id", "7", 0)

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := client.Exists(ctx, prefix+"token", prefix+"user-id").Result(); n != 0 {
		t.Errorf("expected all session keys removed, %d remain", n)
	}
	if err := store.Clear(ctx); err != nil {
		t.Errorf("second clear should not fail: %v", err)
	}
}
