package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisLocker_HoldsAndReleases(t *testing.T) {
	mr, client := newTestRedis(t)
	l := NewRedisLocker(client, 5*time.Second)
	key := Key("booking", "a@x.com", "d", "Cleaning")

	err := l.WithLock(context.Background(), key, func(ctx context.Context) error {
		token, err := mr.Get(key)
		if err != nil || token == "" {
			t.Errorf("expected key held with a token, got %q, %v", token, err)
		}
		if ttl := mr.TTL(key); ttl != 5*time.Second {
			t.Errorf("expected 5s ttl, got %s", ttl)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mr.Exists(key) {
		t.Error("expected key released after fn returned")
	}
}

func TestRedisLocker_Contention(t *testing.T) {
	mr, client := newTestRedis(t)
	l := NewRedisLocker(client, 5*time.Second)
	key := Key("booking", "a@x.com", "d", "Cleaning")

	err := l.WithLock(context.Background(), key, func(ctx context.Context) error {
		innerRan := false
		err := l.WithLock(ctx, key, func(context.Context) error {
			innerRan = true
			return nil
		})
		if !errors.Is(err, ErrNotAcquired) {
			t.Errorf("expected ErrNotAcquired, got %v", err)
		}
		if innerRan {
			t.Error("expected second holder not to run")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Free again once the first holder is done.
	if err := l.WithLock(context.Background(), key, func(context.Context) error { return nil }); err != nil {
		t.Errorf("expected lock free after release, got %v", err)
	}
	if mr.Exists(key) {
		t.Error("expected key released")
	}
}

func TestRedisLocker_ReleaseKeepsForeignToken(t *testing.T) {
	mr, client := newTestRedis(t)
	l := NewRedisLocker(client, 5*time.Second)
	key := Key("booking", "a@x.com", "d", "Cleaning")

	_ = l.WithLock(context.Background(), key, func(context.Context) error {
		// The lock expired and another request took it over.
		mr.Set(key, "other-holder")
		return nil
	})

	got, err := mr.Get(key)
	if err != nil || got != "other-holder" {
		t.Errorf("expected foreign lock untouched, got %q, %v", got, err)
	}
}

func TestRedisLocker_ReleasesAfterCancel(t *testing.T) {
	mr, client := newTestRedis(t)
	l := NewRedisLocker(client, 5*time.Second)
	key := Key("booking", "a@x.com", "d", "Cleaning")

	ctx, cancel := context.WithCancel(context.Background())
	err := l.WithLock(ctx, key, func(held context.Context) error {
		cancel()
		return held.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected fn error to propagate, got %v", err)
	}
	if mr.Exists(key) {
		t.Error("expected key released even though the request was cancelled")
	}
}

func TestRedisLocker_PropagatesError(t *testing.T) {
	mr, client := newTestRedis(t)
	l := NewRedisLocker(client, time.Second)
	want := errors.New("insert failed")

	err := l.WithLock(context.Background(), "k", func(context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Errorf("expected %v, got %v", want, err)
	}
	if mr.Exists("k") {
		t.Error("expected key released after a failing fn")
	}
}

func TestRedisLocker_StoreDown(t *testing.T) {
	mr, client := newTestRedis(t)
	l := NewRedisLocker(client, time.Second)
	mr.Close()

	ran := false
	err := l.WithLock(context.Background(), "k", func(context.Context) error {
		ran = true
		return nil
	})
	if err == nil || errors.Is(err, ErrNotAcquired) {
		t.Errorf("expected acquire error, got %v", err)
	}
	if ran {
		t.Error("expected fn not to run without the lock")
	}
}

func TestCheck_Redis(t *testing.T) {
	mr, client := newTestRedis(t)
	chk := Check(client)
	if chk.Name != "redis" {
		t.Errorf("unexpected name %q", chk.Name)
	}
	if err := chk.Ping(context.Background()); err != nil {
		t.Errorf("expected ping ok, got %v", err)
	}
	mr.Close()
	if err := chk.Ping(context.Background()); err == nil {
		t.Error("expected ping error after redis stopped")
	}
}
