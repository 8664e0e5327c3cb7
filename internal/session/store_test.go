package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/pressroom/pressroom/internal/session"
)

// newTestStore spins up an in-process Redis and returns a store backed by it.
func newTestStore(t *testing.T, ttl time.Duration) (*session.Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return session.NewStore(rdb, ttl), mr
}

func TestCreateResolveRoundtrip(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if token == "" {
		t.Fatal("Create returned an empty token")
	}

	username, err := store.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if username != "alice" {
		t.Errorf("Resolve = %q, want %q", username, "alice")
	}
}

func TestResolveUnknownToken(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	_, err := store.Resolve(context.Background(), "no-such-token")
	if !errors.Is(err, session.ErrNoSession) {
		t.Errorf("Resolve unknown token = %v, want ErrNoSession", err)
	}
}

func TestDestroyRemovesSession(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.Destroy(ctx, token); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	_, err = store.Resolve(ctx, token)
	if !errors.Is(err, session.ErrNoSession) {
		t.Errorf("Resolve after Destroy = %v, want ErrNoSession", err)
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	if err := store.Destroy(ctx, "never-existed"); err != nil {
		t.Errorf("Destroy of absent token = %v, want nil", err)
	}
	if err := store.Destroy(ctx, ""); err != nil {
		t.Errorf("Destroy of empty token = %v, want nil", err)
	}
}

func TestSessionExpires(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	_, err = store.Resolve(ctx, token)
	if !errors.Is(err, session.ErrNoSession) {
		t.Errorf("Resolve after TTL = %v, want ErrNoSession", err)
	}
}

func TestTokensAreUnique(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := store.Create(ctx, "alice")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token %q", token)
		}
		seen[token] = true
	}
}

func TestResolveUnavailableStore(t *testing.T) {
	store, mr := newTestStore(t, time.Hour)
	mr.Close()

	_, err := store.Resolve(context.Background(), "any-token")
	if !errors.Is(err, session.ErrUnavailable) {
		t.Errorf("Resolve with store down = %v, want ErrUnavailable", err)
	}
}
