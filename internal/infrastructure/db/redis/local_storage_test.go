package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHashKey(t *testing.T) {
	if got := HashKey("abc"); got != "work21:ls:abc" {
		t.Fatalf("unexpected key %q", got)
	}
}

// Runs only when REDIS_TEST_ADDR points at a disposable Redis instance.
func TestStorageProvider_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: addr})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	ns := uuid.NewString()
	defer client.Del(ctx, HashKey(ns))

	ls := NewStorageProvider(client, time.Minute).Scope(ns)
	if _, ok, err := ls.Get(ctx, "access_token"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := ls.Set(ctx, "access_token", "T"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, err := ls.Get(ctx, "access_token"); err != nil || !ok || v != "T" {
		t.Fatalf("expected T, got %q ok=%v err=%v", v, ok, err)
	}
	if ttl := client.TTL(ctx, HashKey(ns)).Val(); ttl <= 0 {
		t.Fatalf("expected ttl to be set, got %v", ttl)
	}
	if err := ls.Remove(ctx, "access_token"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := ls.Get(ctx, "access_token"); ok {
		t.Fatal("expected key removed")
	}
}
