package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Ticker string  `json:"ticker"`
		Price  float64 `json:"price"`
	}

	in := payload{Ticker: "AAPL", Price: 187.5}
	if err := c.Set(ctx, "quote:AAPL", in, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out payload
	hit, err := c.Get(ctx, "quote:AAPL", &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if out != in {
		t.Errorf("Get = %+v, want %+v", out, in)
	}
}

func TestGetMissing(t *testing.T) {
	c := newTestCache(t)

	var out string
	hit, err := c.Get(context.Background(), "nope", &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("expected miss for absent key")
	}
}

func TestExpiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	c.now = func() time.Time { return now.Add(2 * time.Minute) }

	var out string
	hit, err := c.Get(ctx, "k", &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("expected expired entry to miss")
	}
}

func TestSetReplaces(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", "old", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Set(ctx, "k", "new", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out string
	if hit, _ := c.Get(ctx, "k", &out); !hit || out != "new" {
		t.Errorf("Get = %q (hit=%v), want new", out, hit)
	}
}

func TestClearExpired(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set(ctx, "stale", 1, time.Second)
	c.Set(ctx, "fresh", 2, time.Hour)

	c.now = func() time.Time { return now.Add(time.Minute) }

	deleted, err := c.ClearExpired(ctx)
	if err != nil {
		t.Fatalf("ClearExpired: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	var out int
	if hit, _ := c.Get(ctx, "fresh", &out); !hit {
		t.Error("fresh entry should survive")
	}
}

func TestGetOrFetch(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) (string, error) {
		calls++
		return "fetched", nil
	}

	for i := 0; i < 3; i++ {
		got, err := GetOrFetch(ctx, c, "k", time.Minute, fetch)
		if err != nil {
			t.Fatalf("GetOrFetch: %v", err)
		}
		if got != "fetched" {
			t.Errorf("GetOrFetch = %q", got)
		}
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}
}

func TestGetOrFetchError(t *testing.T) {
	c := newTestCache(t)

	wantErr := errors.New("provider down")
	_, err := GetOrFetch(context.Background(), c, "k", time.Minute, func(context.Context) (int, error) {
		return 0, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}

	// Failed fetches must not be cached.
	var out int
	if hit, _ := c.Get(context.Background(), "k", &out); hit {
		t.Error("error result should not be cached")
	}
}

func TestGetOrFetchNilCache(t *testing.T) {
	got, err := GetOrFetch(context.Background(), nil, "k", time.Minute, func(context.Context) (string, error) {
		return "direct", nil
	})
	if err != nil || got != "direct" {
		t.Errorf("GetOrFetch = %q, %v", got, err)
	}
}
