package httputil

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/evdash/pkg/cache"
)

func newFileJSONCache(t *testing.T, ttl time.Duration) (*JSONCache, *cache.FileCache) {
	t.Helper()
	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewJSONCache(store, ttl), store
}

func TestCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c, _ := newFileJSONCache(t, time.Hour)

	tests := []struct {
		name  string
		key   string
		value any
		into  func() any
	}{
		{"map", "key1", map[string]string{"foo": "bar"}, func() any { return &map[string]string{} }},
		{"string", "key2", "test", func() any { return new(string) }},
		{"nested", "key3", map[string]any{"a": map[string]any{"b": 1.0}}, func() any { return &map[string]any{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Set(ctx, tt.key, tt.value); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			result := tt.into()
			ok, err := c.Get(ctx, tt.key, result)
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if !ok {
				t.Fatal("Get() returned false for existing key")
			}
		})
	}
}

func TestCache_Miss(t *testing.T) {
	c, _ := newFileJSONCache(t, time.Hour)
	var result string
	ok, err := c.Get(context.Background(), "missing", &result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Get() returned true for missing key")
	}
}

func TestCache_Expiration(t *testing.T) {
	ctx := context.Background()
	c, _ := newFileJSONCache(t, time.Millisecond)

	if err := c.Set(ctx, "key", "value"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	var result string
	if ok, _ := c.Get(ctx, "key", &result); ok {
		t.Error("expired entry should miss")
	}
}

func TestCache_DecodeError(t *testing.T) {
	ctx := context.Background()
	c, store := newFileJSONCache(t, time.Hour)

	if err := store.Set(ctx, "key", []byte("not json"), time.Hour); err != nil {
		t.Fatal(err)
	}
	var result map[string]int
	if _, err := c.Get(ctx, "key", &result); err == nil {
		t.Error("undecodable entry should return an error")
	}
}

func TestCache_TTL(t *testing.T) {
	c, _ := newFileJSONCache(t, time.Hour)
	if c.TTL() != time.Hour {
		t.Errorf("TTL() = %v, want 1h", c.TTL())
	}
	if ns := c.Namespace("nrel:"); ns.TTL() != c.TTL() {
		t.Errorf("namespace TTL = %v, want %v", ns.TTL(), c.TTL())
	}
}
