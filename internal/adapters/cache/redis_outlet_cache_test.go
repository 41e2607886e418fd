package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"field-visit-service/internal/domain"
)

func newTestRedisCache(t *testing.T) (*RedisOutletCache, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisOutletCache(client, time.Hour), srv
}

func TestRedisOutletCachePutGet(t *testing.T) {
	c, _ := newTestRedisCache(t)
	ctx := context.Background()

	outlets := map[int]domain.Outlet{
		12: {ID: 12, Name: "Toko Sinar", Location: "-6.2088,106.8456", Radius: 50},
		15: {ID: 15, Name: "Warung Dua", Location: "", Radius: 0},
	}

	if err := c.PutMany(ctx, outlets); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := c.GetMany(ctx, []int{12, 15, 99})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d outlets, want 2", len(got))
	}
	if got[12].Name != "Toko Sinar" || got[12].Radius != 50 {
		t.Fatalf("outlet 12 = %+v", got[12])
	}
	if got[15].Location != "" {
		t.Fatalf("outlet 15 location = %q, want empty", got[15].Location)
	}
}

func TestRedisOutletCacheExpiry(t *testing.T) {
	c, srv := newTestRedisCache(t)
	ctx := context.Background()

	if err := c.PutMany(ctx, map[int]domain.Outlet{7: {ID: 7, Name: "Kios Tujuh"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	srv.FastForward(2 * time.Hour)

	got, err := c.GetMany(ctx, []int{7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expired entry still present: %+v", got)
	}
}

func TestRedisOutletCacheRejectsInvalidID(t *testing.T) {
	c, _ := newTestRedisCache(t)

	err := c.PutMany(context.Background(), map[int]domain.Outlet{0: {}})
	if err == nil {
		t.Fatal("expected error for outlet id 0")
	}
}
