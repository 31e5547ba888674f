package auth

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

// fakeClock drives both the codec and the store from one time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestSessionManager(t *testing.T) (*SessionManager, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}

	codec := NewTokenCodec(testSecret, 24*time.Hour)
	codec.now = clock.Now
	store := NewRevocationStore(time.Hour, zap.NewNop())
	store.now = clock.Now

	return NewSessionManager(codec, store, zap.NewNop()), clock
}

func TestLoginThenValidate(t *testing.T) {
	manager, _ := newTestSessionManager(t)

	session, err := manager.Login("u1", nil)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !manager.Validate(session.Token) {
		t.Fatal("freshly issued token invalid")
	}
}

func TestValidateExpired(t *testing.T) {
	manager, clock := newTestSessionManager(t)

	session, err := manager.Login("u1", nil)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	clock.Advance(24*time.Hour + time.Second)
	if manager.Validate(session.Token) {
		t.Fatal("expired token still valid without any revocation")
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	manager, _ := newTestSessionManager(t)

	session, err := manager.Login("u1", nil)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := manager.Logout(session.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if manager.Validate(session.Token) {
		t.Fatal("token valid after logout")
	}
	if err := manager.Logout(session.Token); !errors.Is(err, ErrTokenAlreadyInvalid) {
		t.Fatalf("second logout = %v, want ErrTokenAlreadyInvalid", err)
	}
}

func TestLogoutGarbageToken(t *testing.T) {
	manager, _ := newTestSessionManager(t)

	if err := manager.Logout("not.a.token"); !errors.Is(err, ErrTokenAlreadyInvalid) {
		t.Fatalf("logout garbage = %v, want ErrTokenAlreadyInvalid", err)
	}
}

func TestRefreshKeepsBothTokensValid(t *testing.T) {
	manager, clock := newTestSessionManager(t)

	session, err := manager.Login("u1", map[string]any{"roles": []string{"admin"}})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	clock.Advance(time.Hour)
	refreshed, err := manager.Refresh(session.Token)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.Token == session.Token {
		t.Fatal("refresh returned the same token")
	}
	if refreshed.Subject != "u1" {
		t.Fatalf("refreshed subject = %q, want u1", refreshed.Subject)
	}

	claims, err := manager.Authenticate(refreshed.Token)
	if err != nil {
		t.Fatalf("authenticate refreshed: %v", err)
	}
	if roles := claims.Roles(); len(roles) != 1 || roles[0] != "admin" {
		t.Fatalf("refreshed roles = %v, want [admin]", roles)
	}

	// the superseded token is not revoked by refresh
	if !manager.Validate(session.Token) {
		t.Fatal("old token invalid after refresh")
	}
}

func TestRefreshInactiveToken(t *testing.T) {
	manager, clock := newTestSessionManager(t)

	session, err := manager.Login("u1", nil)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	clock.Advance(25 * time.Hour)

	if _, err := manager.Refresh(session.Token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("refresh expired = %v, want ErrExpiredToken", err)
	}
}

func TestTokenLifecycleEndToEnd(t *testing.T) {
	manager, clock := newTestSessionManager(t)

	session, err := manager.Login("u1", nil)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	clock.Advance(time.Hour)
	if !manager.Validate(session.Token) {
		t.Fatal("token invalid at T0+1h")
	}

	clock.Advance(time.Hour)
	if err := manager.Logout(session.Token); err != nil {
		t.Fatalf("logout at T0+2h: %v", err)
	}

	clock.Advance(time.Second)
	if manager.Validate(session.Token) {
		t.Fatal("token valid after logout")
	}
	if manager.Revocations().Size() != 1 {
		t.Fatalf("store size = %d before sweep, want 1", manager.Revocations().Size())
	}

	clock.Advance(23 * time.Hour)
	manager.Revocations().sweep()
	if manager.Revocations().Size() != 0 {
		t.Fatalf("store size = %d after sweep at T0+25h, want 0", manager.Revocations().Size())
	}
}

func TestDenylistBoundedUnderSustainedLogout(t *testing.T) {
	manager, clock := newTestSessionManager(t)

	// logouts spread over two TTL windows; entries from the first
	// window must be gone after a sweep
	for i := 0; i < 20; i++ {
		session, err := manager.Login("u1", map[string]any{"n": i})
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if err := manager.Logout(session.Token); err != nil {
			t.Fatalf("logout: %v", err)
		}
		clock.Advance(3 * time.Hour)
	}

	manager.Revocations().sweep()
	size := manager.Revocations().Size()
	if size > 8 {
		t.Fatalf("store size = %d after sweep, want at most one TTL window of logouts", size)
	}
}

func TestConcurrentLogoutExactlyOneSucceeds(t *testing.T) {
	manager, _ := newTestSessionManager(t)

	session, err := manager.Login("u1", nil)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	const workers = 32
	var succeeded atomic.Int64
	var alreadyInvalid atomic.Int64
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			switch err := manager.Logout(session.Token); {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, ErrTokenAlreadyInvalid):
				alreadyInvalid.Add(1)
			default:
				t.Errorf("unexpected logout error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if succeeded.Load() != 1 {
		t.Fatalf("succeeded = %d, want exactly 1", succeeded.Load())
	}
	if alreadyInvalid.Load() != workers-1 {
		t.Fatalf("alreadyInvalid = %d, want %d", alreadyInvalid.Load(), workers-1)
	}
	if manager.Validate(session.Token) {
		t.Fatal("token valid after concurrent logout storm")
	}
}
