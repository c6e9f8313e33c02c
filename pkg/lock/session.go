package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"simvado-be/internal/pkg/logger"
)

// lockEntry holds a one-slot semaphore so waiters can give up on ctx.
type lockEntry struct {
	sem  chan struct{}
	refs int
}

// SessionLocker runs functions one at a time per session id. Entries are
// reference counted and removed when no caller holds or waits on them.
type SessionLocker struct {
	mu    sync.Mutex
	locks map[string]*lockEntry

	locker Locker
	ttl    time.Duration
	logger logger.ILogger
}

// NewSessionLocker builds a locker. distributed may be nil for a single replica.
func NewSessionLocker(distributed Locker, ttl time.Duration, log logger.ILogger) *SessionLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &SessionLocker{
		locks:  make(map[string]*lockEntry),
		locker: distributed,
		ttl:    ttl,
		logger: log,
	}
}

func (s *SessionLocker) acquire(key string) *lockEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.locks[key]
	if !ok {
		entry = &lockEntry{sem: make(chan struct{}, 1)}
		s.locks[key] = entry
	}
	entry.refs++
	return entry
}

func (s *SessionLocker) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.locks[key]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(s.locks, key)
	}
}

// active returns the number of keys currently tracked.
func (s *SessionLocker) active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}

// WithLock executes fn while holding the lock for key.
func (s *SessionLocker) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := s.acquire(key)
	select {
	case entry.sem <- struct{}{}:
	case <-ctx.Done():
		s.release(key)
		return fmt.Errorf("session %s: %w: %w", key, ErrLockBusy, ctx.Err())
	}
	defer func() {
		<-entry.sem
		s.release(key)
	}()

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, key, s.ttl)
		if err != nil {
			return fmt.Errorf("session %s: %w", key, err)
		}
		defer func() {
			// release with a fresh context so a cancelled request still unlocks
			if err := unlock(context.Background()); err != nil {
				s.logger.Warn("LOCK", "Failed to release distributed lock, it will expire", map[string]interface{}{
					"key":   key,
					"error": err.Error(),
				})
			}
		}()
	}

	return fn(ctx)
}
