package auth

import (
	"time"

	"go.uber.org/zap"
)

// Session is the result of issuing a token.
type Session struct {
	Token     string
	Subject   string
	ExpiresAt time.Time
}

// SessionManager orchestrates the token lifecycle: issuing on login,
// denylisting on logout, reissuing on refresh, and validating on every
// gated request. A token is active from issuance until its embedded
// expiry passes or it is revoked; both checks are composed here.
type SessionManager struct {
	codec       *TokenCodec
	revocations *RevocationStore
	logger      *zap.Logger
}

// NewSessionManager builds the manager from its collaborators.
func NewSessionManager(codec *TokenCodec, revocations *RevocationStore, logger *zap.Logger) *SessionManager {
	return &SessionManager{codec: codec, revocations: revocations, logger: logger}
}

// Login issues a fresh token for the subject.
func (m *SessionManager) Login(subject string, extraClaims map[string]any) (*Session, error) {
	token, expiresAt, err := m.codec.Issue(subject, extraClaims)
	if err != nil {
		return nil, err
	}
	m.logger.Info("session issued", zap.String("subject", subject))
	return &Session{Token: token, Subject: subject, ExpiresAt: expiresAt}, nil
}

// Authenticate verifies signature and expiry, then checks the
// denylist. It returns the claims of an active token or the error kind
// describing why the token is not active.
func (m *SessionManager) Authenticate(tokenString string) (*Claims, error) {
	claims, err := m.codec.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if m.revocations.IsRevoked(tokenString) {
		return nil, ErrRevokedToken
	}
	return claims, nil
}

// Validate reports whether the token is currently active.
func (m *SessionManager) Validate(tokenString string) bool {
	_, err := m.Authenticate(tokenString)
	return err == nil
}

// Logout revokes an active token. The denylist entry carries the
// token's own expiry so it self-expires exactly when the token would
// have anyway. Logging out a token that is not currently active fails
// with ErrTokenAlreadyInvalid; silent acceptance would hide client
// bugs.
func (m *SessionManager) Logout(tokenString string) error {
	claims, err := m.Authenticate(tokenString)
	if err != nil {
		return ErrTokenAlreadyInvalid
	}
	if !m.revocations.Revoke(tokenString, claims.ExpiresAt) {
		return ErrTokenAlreadyInvalid
	}
	m.logger.Info("session revoked", zap.String("subject", claims.Subject))
	return nil
}

// Refresh issues a new token preserving the subject and non-temporal
// claims of an active token. The superseded token is not revoked; it
// stays valid until its own expiry or an explicit logout.
func (m *SessionManager) Refresh(tokenString string) (*Session, error) {
	claims, err := m.Authenticate(tokenString)
	if err != nil {
		return nil, err
	}
	token, expiresAt, issueErr := m.codec.Issue(claims.Subject, claims.Extra)
	if issueErr != nil {
		return nil, issueErr
	}
	m.logger.Info("session refreshed", zap.String("subject", claims.Subject))
	return &Session{Token: token, Subject: claims.Subject, ExpiresAt: expiresAt}, nil
}

// Codec exposes the token codec for header extraction helpers.
func (m *SessionManager) Codec() *TokenCodec {
	return m.codec
}

// Revocations exposes the denylist for observability.
func (m *SessionManager) Revocations() *RevocationStore {
	return m.revocations
}
