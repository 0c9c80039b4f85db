package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestRedisStore_RoundTrip(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("failed to parse REDIS_URL: %v", err)
	}
	client := redis.NewClient(opt)
	defer client.Close()

	ctx := context.Background()
	prefix := fmt.Sprintf("fittrack-test-%d:", time.Now().UnixNano())
	store := NewRedisStore(client, prefix)
	defer client.Del(ctx, prefix+TokenKey)

	if _, err := store.Get(ctx); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken for a missing key, got %v", err)
	}

	if err := store.Set(ctx, "abc.def.ghi"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "abc.def.ghi" {
		t.Errorf("expected stored token, got %q", got)
	}
	if n, _ := client.Exists(ctx, prefix+TokenKey).Result(); n != 1 {
		t.Errorf("expected token under %s%s", prefix, TokenKey)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := store.Get(ctx); !errors.Is(err, ErrNoToken) {
		t.Errorf("expected ErrNoToken after Clear, got %v", err)
	}
}

func TestRedisStore_ConnectionErrorIsNotMissingToken(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	_, err := NewRedisStore(client, "fittrack:").Get(context.Background())
	if err == nil {
		t.Fatal("expected an error from an unreachable Redis")
	}
	if errors.Is(err, ErrNoToken) {
		t.Errorf("expected a connection error, got ErrNoToken")
	}
}
