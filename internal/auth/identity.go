package auth

import (
	"github.com/gofiber/fiber/v2"
)

const identityKey = "auth_identity"

// Identity is the request-scoped view of the authenticated caller. It
// is bound exactly once per request by the auth gate and read-only
// afterwards; it has no existence outside the request.
type Identity struct {
	Subject string
	Roles   []string
	Claims  map[string]any
}

func identityFromClaims(claims *Claims) *Identity {
	return &Identity{
		Subject: claims.Subject,
		Roles:   claims.Roles(),
		Claims:  claims.Extra,
	}
}

func bindIdentity(c *fiber.Ctx, identity *Identity) {
	c.Locals(identityKey, identity)
}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}

// RequireIdentity returns the authenticated identity or
// ErrUnauthenticated. Handlers that must not run anonymously use this
// even behind the gate; it defends against a misconfigured exclusion
// list.
func RequireIdentity(c *fiber.Ctx) (*Identity, error) {
	identity, ok := IdentityFromContext(c)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return identity, nil
}
