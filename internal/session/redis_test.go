package session_test

import (
	"os"
	"testing"
	"time"

	"github.com/p-n-ai/cogni/internal/platform/cache"
	"github.com/p-n-ai/cogni/internal/session"
)

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis test in short mode")
	}
	url := os.Getenv("COGNI_TEST_CACHE_URL")
	if url == "" {
		t.Skip("COGNI_TEST_CACHE_URL not set")
	}

	c, err := cache.New(t.Context(), url, "cogni-test")
	if err != nil {
		t.Fatalf("cache.New() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	store := session.NewRedisStore(c, "test-"+t.Name(), time.Minute)
	exercise(t, store)

	if err := store.Save(t.Context(), sample()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	ttl, err := c.Client.TTL(t.Context(), c.Key("session", "test-"+t.Name())).Result()
	if err != nil {
		t.Fatalf("TTL() error = %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("TTL = %v, want within one minute", ttl)
	}
	_ = store.Clear(t.Context())
}
