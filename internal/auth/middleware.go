package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/record-service/internal/observability"
	apperrors "github.com/spec-kit/record-service/pkg/util"
)

// AuthGate validates bearer tokens on protected routes and binds the
// resolved identity into the request context. It fails closed: any
// internal fault during extraction or validation is reported as an
// authentication failure, never a 500.
type AuthGate struct {
	sessions *SessionManager
	metrics  *observability.Metrics
	logger   *zap.Logger
	excluded []string
}

// NewAuthGate constructs the gate. Excluded paths bypass validation;
// an entry ending in "/*" matches by prefix.
func NewAuthGate(sessions *SessionManager, metrics *observability.Metrics, logger *zap.Logger, excluded ...string) *AuthGate {
	return &AuthGate{sessions: sessions, metrics: metrics, logger: logger, excluded: excluded}
}

// Handle enforces authentication for every matched route except the
// exclusion list.
func (g *AuthGate) Handle(c *fiber.Ctx) error {
	if g.isExcluded(c.Path()) {
		return c.Next()
	}

	identity, err := g.authenticate(c)
	if err != nil {
		return err
	}

	bindIdentity(c, identity)
	g.metrics.RecordAuthOutcome("accepted")
	return c.Next()
}

func (g *AuthGate) authenticate(c *fiber.Ctx) (identity *Identity, err error) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("auth gate panic", zap.Any("panic", r), zap.String("path", c.Path()))
			g.metrics.RecordAuthOutcome("invalid")
			identity = nil
			err = apperrors.NewUnauthorized("invalid or expired token")
		}
	}()

	token := ExtractFromHeader(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		g.metrics.RecordAuthOutcome("missing")
		return nil, apperrors.NewUnauthorized("missing token")
	}

	claims, authErr := g.sessions.Authenticate(token)
	if authErr != nil {
		g.logger.Debug("token rejected", zap.String("path", c.Path()), zap.Error(authErr))
		g.metrics.RecordAuthOutcome("invalid")
		return nil, apperrors.NewUnauthorized("invalid or expired token")
	}
	return identityFromClaims(claims), nil
}

func (g *AuthGate) isExcluded(path string) bool {
	for _, pattern := range g.excluded {
		if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
			if strings.HasPrefix(path, prefix+"/") || path == prefix {
				return true
			}
			continue
		}
		if path == pattern {
			return true
		}
	}
	return false
}
