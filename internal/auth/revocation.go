package auth

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"go.uber.org/zap"
)

const shardCount = 32

type revocationShard struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

// RevocationStore is a thread-safe denylist of tokens invalidated
// before their natural expiry. Entries are keyed by token string and
// carry the token's own expiry, so the denylist self-expires: an entry
// whose expiry has passed is treated as absent on read and physically
// removed either on that read or by the periodic sweep.
//
// The map is sharded so that readers and writers on distinct tokens do
// not contend, and the sweep never holds more than one shard lock at a
// time.
type RevocationStore struct {
	shards   [shardCount]*revocationShard
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	stopOnce sync.Once
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewRevocationStore builds a store sweeping at the given interval.
func NewRevocationStore(interval time.Duration, logger *zap.Logger) *RevocationStore {
	if interval <= 0 {
		interval = time.Hour
	}
	store := &RevocationStore{
		interval: interval,
		logger:   logger,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	for i := range store.shards {
		store.shards[i] = &revocationShard{entries: make(map[string]time.Time)}
	}
	return store
}

// Revoke inserts the token into the denylist until expiresAt. The
// insert is idempotent and last-write-wins on the stored expiry. It
// reports whether the token was not already actively revoked, so a
// caller can detect a concurrent duplicate logout.
func (s *RevocationStore) Revoke(token string, expiresAt time.Time) bool {
	shard := s.shard(token)
	now := s.now()

	shard.mu.Lock()
	defer shard.mu.Unlock()

	previous, exists := shard.entries[token]
	shard.entries[token] = expiresAt
	return !exists || previous.Before(now)
}

// IsRevoked reports whether the token is actively denylisted. A stored
// entry whose expiry has passed counts as not revoked and is removed
// on this read, independent of the sweep.
func (s *RevocationStore) IsRevoked(token string) bool {
	shard := s.shard(token)

	shard.mu.RLock()
	expiresAt, exists := shard.entries[token]
	shard.mu.RUnlock()

	if !exists {
		return false
	}
	if expiresAt.Before(s.now()) {
		shard.mu.Lock()
		// Re-check under the write lock; a concurrent Revoke may have
		// refreshed the entry.
		if current, ok := shard.entries[token]; ok && current.Before(s.now()) {
			delete(shard.entries, token)
		}
		shard.mu.Unlock()
		return false
	}
	return true
}

// Size returns the number of stored entries. The count is eventually
// consistent under concurrent mutation.
func (s *RevocationStore) Size() int {
	total := 0
	for _, shard := range s.shards {
		shard.mu.RLock()
		total += len(shard.entries)
		shard.mu.RUnlock()
	}
	return total
}

// Start launches the background sweep. It returns immediately; the
// sweep stops when ctx is cancelled or Stop is called.
func (s *RevocationStore) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runSweep()
			}
		}
	}()
}

// Stop cancels the sweep task and waits for it to exit.
func (s *RevocationStore) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel == nil {
			close(s.done)
			return
		}
		s.cancel()
		<-s.done
	})
}

// runSweep shields the sweep loop from a panicking cycle; a failed
// cycle is logged and the next one still runs.
func (s *RevocationStore) runSweep() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("revocation sweep failed", zap.Any("panic", r))
		}
	}()
	removed := s.sweep()
	if removed > 0 {
		s.logger.Info("swept expired revocations", zap.Int("removed", removed))
	}
}

// sweep removes expired entries shard by shard.
func (s *RevocationStore) sweep() int {
	removed := 0
	for _, shard := range s.shards {
		now := s.now()
		shard.mu.Lock()
		for token, expiresAt := range shard.entries {
			if expiresAt.Before(now) {
				delete(shard.entries, token)
				removed++
			}
		}
		shard.mu.Unlock()
	}
	return removed
}

func (s *RevocationStore) shard(token string) *revocationShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	return s.shards[h.Sum32()%shardCount]
}
