package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maml-online/internal/domain"
	apperrors "github.com/spec-kit/maml-online/pkg/util/errorutil"
)

// ParticipantHandler serves a request made by a resolved participant.
type ParticipantHandler func(c *fiber.Ctx, id domain.ParticipantID) error

// AdminHandler serves a request made by a resolved admin.
type AdminHandler func(c *fiber.Ctx, id domain.AdminID) error

// IdentityHandler serves a request made by any resolved identity.
type IdentityHandler func(c *fiber.Ctx, token domain.Token) error

// Participant runs h for participants. An admin falls through to the next
// matching route; a request without an identity is rejected.
//
// The returned handler must be the last handler of its route so that
// c.Next() continues with the next route rather than the next handler.
func Participant(h ParticipantHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := ResolutionFromContext(c)
		switch res.Match(domain.RoleParticipant) {
		case MatchRole:
			id, _ := res.Token.Participant()
			return h(c, id)
		case MatchWrongRole:
			return c.Next()
		default:
			return apperrors.NewUnauthorized("sign in required")
		}
	}
}

// Admin runs h for admins. A participant falls through to the next matching
// route; a request without an identity is rejected.
func Admin(h AdminHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := ResolutionFromContext(c)
		switch res.Match(domain.RoleAdmin) {
		case MatchRole:
			id, _ := res.Token.Admin()
			return h(c, id)
		case MatchWrongRole:
			return c.Next()
		default:
			return apperrors.NewUnauthorized("sign in required")
		}
	}
}

// Any runs h for any resolved identity and rejects everything else.
func Any(h IdentityHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := ResolutionFromContext(c)
		if res.Outcome == OutcomeUnauthenticated {
			return apperrors.NewUnauthorized("sign in required")
		}
		return h(c, res.Token)
	}
}

// Anonymous runs h only when no identity was resolved; otherwise it falls
// through to the next matching route.
func Anonymous(h fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ResolutionFromContext(c).Outcome != OutcomeUnauthenticated {
			return c.Next()
		}
		return h(c)
	}
}
