package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// opTimeout bounds every Redis round-trip so a stalled cache cannot hold a
// request open past its own lifetime.
const opTimeout = 3 * time.Second

var (
	// ErrNoSession is returned by Resolve when the token is unknown or the
	// session has expired out of Redis.
	ErrNoSession = errors.New("no such session")
	// ErrUnavailable wraps connectivity failures to the session store.
	ErrUnavailable = errors.New("session store unavailable")
)

// Store keeps session state in Redis, keyed by an opaque token. The value
// is the username; expiry is delegated to Redis TTL.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(token string) string {
	return keyPrefix + token
}

// Create allocates a fresh token mapped to username. The token is the only
// credential the client holds; collisions are avoided by UUID generation.
func (s *Store) Create(ctx context.Context, username string) (string, error) {
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.rdb.Set(ctx, key(token), username, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return token, nil
}

// Resolve returns the username associated with token, or ErrNoSession when
// the token is unknown or expired.
func (s *Store) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	username, err := s.rdb.Get(ctx, key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return username, nil
}

// Destroy removes the session record. Destroying an absent token is a no-op.
func (s *Store) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.rdb.Del(ctx, key(token)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Ping probes Redis liveness for the health reporter.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
