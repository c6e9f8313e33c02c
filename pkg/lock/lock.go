// Package lock serializes work per key, in process and optionally across
// replicas through Redis.
package lock

import (
	"context"
	"time"
)

// UnlockFunc releases a lock.
type UnlockFunc func(ctx context.Context) error

// Locker acquires a distributed lock for key. It blocks until the lock is
// held or ctx is done. The lock expires after ttl if never released.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
