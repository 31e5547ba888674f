package auth

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestStore(now func() time.Time) *RevocationStore {
	store := NewRevocationStore(time.Hour, zap.NewNop())
	if now != nil {
		store.now = now
	}
	return store
}

func TestRevokeAndIsRevoked(t *testing.T) {
	store := newTestStore(nil)

	if store.IsRevoked("unknown") {
		t.Fatal("unknown token reported revoked")
	}

	store.Revoke("tok", time.Now().Add(time.Hour))
	if !store.IsRevoked("tok") {
		t.Fatal("revoked token not reported revoked")
	}
	if store.Size() != 1 {
		t.Fatalf("size = %d, want 1", store.Size())
	}
}

func TestLazyExpiryOnRead(t *testing.T) {
	now := time.Now()
	store := newTestStore(func() time.Time { return now })

	store.Revoke("tok", now.Add(time.Minute))
	now = now.Add(2 * time.Minute)

	if store.IsRevoked("tok") {
		t.Fatal("expired entry reported revoked")
	}
	if store.Size() != 0 {
		t.Fatalf("size = %d after lazy expiry, want 0", store.Size())
	}
}

func TestRevokeLastWriteWins(t *testing.T) {
	now := time.Now()
	store := newTestStore(func() time.Time { return now })

	if !store.Revoke("tok", now.Add(time.Minute)) {
		t.Fatal("first revoke reported duplicate")
	}
	if store.Revoke("tok", now.Add(2*time.Minute)) {
		t.Fatal("second revoke reported fresh")
	}
	now = now.Add(90 * time.Second)
	// the rewritten expiry is authoritative
	if !store.IsRevoked("tok") {
		t.Fatal("entry expired before rewritten expiry")
	}
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	now := time.Now()
	store := newTestStore(func() time.Time { return now })

	store.Revoke("live", now.Add(time.Hour))
	store.Revoke("dead-1", now.Add(time.Minute))
	store.Revoke("dead-2", now.Add(2*time.Minute))

	now = now.Add(10 * time.Minute)
	if removed := store.sweep(); removed != 2 {
		t.Fatalf("sweep removed %d, want 2", removed)
	}
	if store.Size() != 1 {
		t.Fatalf("size = %d after sweep, want 1", store.Size())
	}
	if !store.IsRevoked("live") {
		t.Fatal("live entry swept")
	}
}

func TestSweepLifecycle(t *testing.T) {
	store := NewRevocationStore(10*time.Millisecond, zap.NewNop())
	store.Revoke("tok", time.Now().Add(-time.Minute))

	store.Start(context.Background())
	deadline := time.After(time.Second)
	for store.Size() != 0 {
		select {
		case <-deadline:
			t.Fatal("sweep never removed expired entry")
		case <-time.After(5 * time.Millisecond):
		}
	}
	store.Stop()
	// Stop is idempotent
	store.Stop()
}

func TestConcurrentRevokeSingleWinner(t *testing.T) {
	store := newTestStore(nil)
	expiresAt := time.Now().Add(time.Hour)

	const workers = 50
	var winners atomic.Int64
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if store.Revoke("tok", expiresAt) {
				winners.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if winners.Load() != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners.Load())
	}
	if !store.IsRevoked("tok") {
		t.Fatal("token not revoked after concurrent logout storm")
	}
}

func TestConcurrentMixedAccess(t *testing.T) {
	store := newTestStore(nil)
	expiresAt := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		token := fmt.Sprintf("tok-%d", i)
		go func() {
			defer wg.Done()
			store.Revoke(token, expiresAt)
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.IsRevoked(token)
				store.Size()
			}
		}()
	}
	wg.Wait()

	if store.Size() != 20 {
		t.Fatalf("size = %d, want 20", store.Size())
	}
}
