package lock

import (
	"context"
	"errors"
	"testing"
)

func TestKey(t *testing.T) {
	got := Key("booking", "jane@example.com", "May 5, 2024", "Cleaning")
	want := "lock:booking:jane@example.com:May 5, 2024:Cleaning"
	if got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestNoop_RunsFn(t *testing.T) {
	called := false
	err := Noop{}.WithLock(context.Background(), "k", func(ctx context.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected fn to run")
	}
}

func TestNoop_PropagatesError(t *testing.T) {
	want := errors.New("insert failed")
	err := Noop{}.WithLock(context.Background(), "k", func(ctx context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Errorf("expected %v, got %v", want, err)
	}
}

func TestNewRedisClient_BadURL(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), "not a url"); err == nil {
		t.Error("expected error for malformed redis url")
	}
}
