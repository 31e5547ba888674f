package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenPrefix is the expected Authorization scheme prefix.
const TokenPrefix = "Bearer "

// reserved claims are owned by the codec and never carried as extras.
var reservedClaims = map[string]struct{}{"sub": {}, "iat": {}, "exp": {}}

// Claims is the decoded payload of a verified token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Extra     map[string]any
}

// Roles returns the roles claim if present.
func (c *Claims) Roles() []string {
	raw, ok := c.Extra["roles"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		roles := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				roles = append(roles, s)
			}
		}
		return roles
	}
	return nil
}

// TokenCodec issues and verifies signed HS256 tokens. It holds no
// mutable state; the secret is fixed at construction.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec builds a codec for the given secret and token lifetime.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL returns the fixed token lifetime.
func (tc *TokenCodec) TTL() time.Duration {
	return tc.ttl
}

// Issue builds and signs a token for the subject. Extra claims are
// carried verbatim; reserved claims in the map are ignored.
func (tc *TokenCodec) Issue(subject string, extra map[string]any) (string, time.Time, error) {
	now := tc.now()
	expiresAt := now.Add(tc.ttl)

	claims := jwt.MapClaims{
		"sub": subject,
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(expiresAt),
	}
	for key, value := range extra {
		if _, reserved := reservedClaims[key]; reserved {
			continue
		}
		claims[key] = value
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tc.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify checks the signature and temporal validity of a token and
// returns its claims. The signature is verified before any claim is
// trusted; expiry is reported as ErrExpiredToken so callers can branch
// on it.
func (tc *TokenCodec) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrUnsupportedToken
		}
		return tc.secret, nil
	}, jwt.WithTimeFunc(tc.now))
	if err != nil {
		return nil, mapParseError(err)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformedToken
	}
	return claimsFromMap(mapClaims)
}

// ExtractFromHeader strips the bearer prefix from an Authorization
// header value. A missing prefix or empty value yields "", not an
// error; absence of a token is an expected condition.
func ExtractFromHeader(headerValue string) string {
	if strings.HasPrefix(headerValue, TokenPrefix) {
		return headerValue[len(TokenPrefix):]
	}
	return ""
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrBadSignature
	case errors.Is(err, ErrUnsupportedToken), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrUnsupportedToken
	default:
		return ErrMalformedToken
	}
}

func claimsFromMap(mapClaims jwt.MapClaims) (*Claims, error) {
	subject, err := mapClaims.GetSubject()
	if err != nil || subject == "" {
		return nil, ErrMalformedToken
	}
	issuedAt, err := mapClaims.GetIssuedAt()
	if err != nil || issuedAt == nil {
		return nil, ErrMalformedToken
	}
	expiresAt, err := mapClaims.GetExpirationTime()
	if err != nil || expiresAt == nil {
		return nil, ErrMalformedToken
	}

	extra := make(map[string]any)
	for key, value := range mapClaims {
		if _, reserved := reservedClaims[key]; reserved {
			continue
		}
		extra[key] = value
	}

	return &Claims{
		Subject:   subject,
		IssuedAt:  issuedAt.Time,
		ExpiresAt: expiresAt.Time,
		Extra:     extra,
	}, nil
}
