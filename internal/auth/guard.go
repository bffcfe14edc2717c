package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shoenig/go-conceal"
	"go.uber.org/zap"

	"github.com/spec-kit/maml-online/internal/domain"
	"github.com/spec-kit/maml-online/internal/observability"
)

const resolutionKey = "auth_resolution"

// Outcome is the result of resolving the identity cookie of one request.
type Outcome uint8

const (
	OutcomeUnauthenticated Outcome = iota
	OutcomeParticipant
	OutcomeAdmin
)

func (o Outcome) String() string {
	switch o {
	case OutcomeParticipant:
		return "participant"
	case OutcomeAdmin:
		return "admin"
	default:
		return "unauthenticated"
	}
}

// Resolution carries the outcome along with the validated token. Discard is
// set when the request presented a cookie that must be deleted.
type Resolution struct {
	Outcome Outcome
	Token   domain.Token
	Discard bool
}

// Match narrows a resolution against the role a route requires.
type Match uint8

const (
	MatchUnauthenticated Match = iota
	MatchWrongRole
	MatchRole
)

// Match reports whether the resolved identity has the given role.
func (r Resolution) Match(role domain.Role) Match {
	if r.Outcome == OutcomeUnauthenticated {
		return MatchUnauthenticated
	}
	if r.Token.Role() != role {
		return MatchWrongRole
	}
	return MatchRole
}

// Registry is the part of the session store the guard reads.
type Registry interface {
	Has(token domain.Token) bool
}

// Resolver turns a raw cookie value into a Resolution.
type Resolver struct {
	registry Registry
}

// NewResolver constructs a resolver over the registry.
func NewResolver(registry Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve decides the outcome for one cookie value. The result depends only
// on the arguments and the registry contents.
func (r *Resolver) Resolve(raw string, present bool) Resolution {
	if !present {
		return Resolution{Outcome: OutcomeUnauthenticated}
	}

	token, err := domain.ParseToken(raw)
	if err != nil {
		return Resolution{Outcome: OutcomeUnauthenticated, Discard: true}
	}
	if !r.registry.Has(token) {
		return Resolution{Outcome: OutcomeUnauthenticated, Discard: true}
	}

	switch token.Role() {
	case domain.RoleParticipant:
		return Resolution{Outcome: OutcomeParticipant, Token: token}
	case domain.RoleAdmin:
		return Resolution{Outcome: OutcomeAdmin, Token: token}
	default:
		return Resolution{Outcome: OutcomeUnauthenticated, Discard: true}
	}
}

// Guard resolves the identity cookie before any route handler runs.
type Guard struct {
	resolver *Resolver
	cookies  *CookieFactory
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewGuard constructs the guard middleware.
func NewGuard(registry Registry, cookies *CookieFactory, logger *zap.Logger, metrics *observability.Metrics) *Guard {
	return &Guard{
		resolver: NewResolver(registry),
		cookies:  cookies,
		logger:   logger,
		metrics:  metrics,
	}
}

// Handle stores the Resolution for downstream handlers and deletes a cookie
// that failed to resolve. It never rejects a request.
func (g *Guard) Handle(c *fiber.Ctx) error {
	raw, present := requestCookie(c, CookieName)
	res := g.resolver.Resolve(raw, present)

	if res.Discard {
		g.logger.Debug("discarding identity cookie",
			zap.Stringer("token", conceal.New(raw)),
			zap.String("path", c.Path()))
		g.cookies.Clear(c)
	}
	g.metrics.RecordAuthOutcome(res.Outcome.String())

	c.Locals(resolutionKey, res)
	return c.Next()
}

// ResolutionFromContext returns the resolution stored by the guard. Requests
// that bypassed the guard resolve as unauthenticated.
func ResolutionFromContext(c *fiber.Ctx) Resolution {
	res, ok := c.Locals(resolutionKey).(Resolution)
	if !ok {
		return Resolution{Outcome: OutcomeUnauthenticated}
	}
	return res
}

// requestCookie distinguishes a missing cookie from one with an empty value.
func requestCookie(c *fiber.Ctx, name string) (string, bool) {
	var (
		value string
		found bool
	)
	c.Request().Header.VisitAllCookie(func(key, val []byte) {
		if !found && string(key) == name {
			value = string(val)
			found = true
		}
	})
	return value, found
}
