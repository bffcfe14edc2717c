package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maml-online/internal/api/dto"
	"github.com/spec-kit/maml-online/internal/auth"
	"github.com/spec-kit/maml-online/internal/domain"
	"github.com/spec-kit/maml-online/internal/session"
)

// SessionHandler renders identity-dependent views.
type SessionHandler struct {
	store   *session.Store
	cookies *auth.CookieFactory
}

// NewSessionHandler constructs handler.
func NewSessionHandler(store *session.Store, cookies *auth.CookieFactory) *SessionHandler {
	return &SessionHandler{store: store, cookies: cookies}
}

// LoginPage handles GET /login for visitors without an identity.
func (h *SessionHandler) LoginPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"data": dto.LoginView{
			Authenticated: false,
			Register:      []string{"/register/participant", "/register/admin"},
		},
	})
}

// AlreadySignedIn handles GET /login for any resolved identity.
func (h *SessionHandler) AlreadySignedIn(c *fiber.Ctx, _ domain.Token) error {
	return c.Redirect("/welcome", http.StatusSeeOther)
}

// ParticipantWelcome handles GET /welcome for participants.
func (h *SessionHandler) ParticipantWelcome(c *fiber.Ctx, id domain.ParticipantID) error {
	return c.JSON(fiber.Map{
		"data": dto.ParticipantWelcomeView{
			Role:        domain.RoleParticipant,
			Participant: dto.NewParticipantView(h.store.Participant(id)),
		},
	})
}

// AdminWelcome handles GET /welcome for admins.
func (h *SessionHandler) AdminWelcome(c *fiber.Ctx, id domain.AdminID) error {
	admin := h.store.Admin(id)
	return c.JSON(fiber.Map{
		"data": dto.NewAdminWelcomeView(admin, h.store.ParticipantsBySchool(admin.School)),
	})
}

// WhoAmI handles GET /whoami.
func (h *SessionHandler) WhoAmI(c *fiber.Ctx, token domain.Token) error {
	return c.JSON(fiber.Map{
		"data": dto.IdentityResponse{Role: token.Role()},
	})
}

// Logout handles POST /logout. Records stay in the store; only the cookie goes.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	h.cookies.Clear(c)
	return c.SendStatus(http.StatusNoContent)
}
