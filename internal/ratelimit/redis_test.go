package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, rate float64, burst int) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisLimiter(rdb, "test:", rate, burst), mr
}

func TestRedisLimiter_BurstThenReject(t *testing.T) {
	l, _ := newTestLimiter(t, 1, 3)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !ok {
			t.Fatalf("request %d rejected inside burst", i)
		}
	}
	if ok, _ := l.Allow(ctx, "10.0.0.1"); ok {
		t.Fatal("request beyond burst allowed")
	}
	if ok, _ := l.Allow(ctx, "10.0.0.2"); !ok {
		t.Fatal("separate key should have its own bucket")
	}
}

func TestRedisLimiter_Refills(t *testing.T) {
	l, _ := newTestLimiter(t, 2, 1)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	if ok, _ := l.Allow(ctx, "k"); !ok {
		t.Fatal("first request rejected")
	}
	if ok, _ := l.Allow(ctx, "k"); ok {
		t.Fatal("second request allowed before refill")
	}

	now = now.Add(600 * time.Millisecond)
	if ok, _ := l.Allow(ctx, "k"); !ok {
		t.Fatal("request rejected after refill")
	}
}

func TestRedisLimiter_SetsExpiry(t *testing.T) {
	l, mr := newTestLimiter(t, 1, 5)
	if _, err := l.Allow(context.Background(), "k"); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL("test:k"); ttl <= 0 {
		t.Fatalf("TTL = %v, want positive", ttl)
	}
}

func TestRedisLimiter_ServerDown(t *testing.T) {
	l, mr := newTestLimiter(t, 1, 1)
	mr.Close()
	if _, err := l.Allow(context.Background(), "k"); err == nil {
		t.Fatal("Allow() should fail when redis is unreachable")
	}
}
