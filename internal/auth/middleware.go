package auth

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/task-service/internal/domain"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller for the current request. It
// lives in the request locals only and is never shared across requests.
type Principal struct {
	User        *domain.User
	Authorities []string
}

// UserLookup resolves the current identity for a token subject. The stored
// role at lookup time is the canonical source of authorities, so role changes
// take effect without re-issuing tokens.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// outcome is the three-way result of inspecting a request's bearer token.
type outcome int

const (
	outcomeNoToken outcome = iota
	outcomeInvalidToken
	outcomeValidToken
)

// Middleware establishes a request identity from bearer tokens. It never
// rejects: requests without a usable token are forwarded anonymously, and
// route guards decide whether anonymous access is allowed.
type Middleware struct {
	tokens *TokenManager
	users  UserLookup
	logger *zap.Logger
	now    func() time.Time
}

// NewMiddleware constructs the middleware.
func NewMiddleware(tokens *TokenManager, users UserLookup, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, users: users, logger: logger, now: time.Now}
}

// Handle inspects the Authorization header once per request. An existing
// principal set by an earlier pipeline stage is left untouched.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	if _, ok := PrincipalFromContext(c); ok {
		return c.Next()
	}

	result, principal := m.inspect(c)
	if result == outcomeValidToken {
		StorePrincipal(c, principal)
	}
	return c.Next()
}

// inspect classifies the request's token and resolves a principal for valid
// ones. Decode and validation failures are logged, never surfaced.
func (m *Middleware) inspect(c *fiber.Ctx) (outcome, *Principal) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return outcomeNoToken, nil
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return outcomeNoToken, nil
	}
	tokenStr := parts[1]

	subject, err := m.tokens.Subject(tokenStr)
	if err != nil {
		m.logger.Debug("token decode failed", zap.Error(err))
		return outcomeInvalidToken, nil
	}

	user, err := m.users.GetByEmail(c.Context(), subject)
	if err != nil {
		m.logger.Debug("token subject unresolved", zap.String("subject", subject), zap.Error(err))
		return outcomeInvalidToken, nil
	}

	if !m.tokens.IsValid(tokenStr, user.Email, m.now()) {
		m.logger.Debug("token rejected", zap.String("subject", subject))
		return outcomeInvalidToken, nil
	}

	return outcomeValidToken, &Principal{
		User:        user,
		Authorities: []string{user.Role.Authority()},
	}
}

// StorePrincipal attaches a principal to the request. Exposed for earlier
// pipeline stages and tests.
func StorePrincipal(c *fiber.Ctx, principal *Principal) {
	c.Locals(principalKey, principal)
}

// PrincipalFromContext retrieves the authenticated caller, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
