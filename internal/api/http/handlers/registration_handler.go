package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maml-online/internal/api/dto"
	"github.com/spec-kit/maml-online/internal/auth"
	"github.com/spec-kit/maml-online/internal/service"
)

// RegistrationHandler exposes registration endpoints for both roles.
type RegistrationHandler struct {
	registrations *service.RegistrationService
	cookies       *auth.CookieFactory
}

// NewRegistrationHandler constructs handler.
func NewRegistrationHandler(registrations *service.RegistrationService, cookies *auth.CookieFactory) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations, cookies: cookies}
}

// Participant handles POST /register/participant.
func (h *RegistrationHandler) Participant(c *fiber.Ctx) error {
	var req dto.ParticipantRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	participant, err := h.registrations.RegisterParticipant(c.UserContext(), req.Name, req.School, req.Grade)
	if err != nil {
		return err
	}

	h.cookies.Set(c, participant.Token())
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.ParticipantWelcomeView{
			Role:        participant.Token().Role(),
			Participant: dto.NewParticipantView(participant),
		},
	})
}

// Admin handles POST /register/admin.
func (h *RegistrationHandler) Admin(c *fiber.Ctx) error {
	var req dto.AdminRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	admin, err := h.registrations.RegisterAdmin(c.UserContext(), req.School, req.Key)
	if err != nil {
		return err
	}

	h.cookies.Set(c, admin.Token())
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"role":  admin.Token().Role(),
			"admin": dto.NewAdminView(admin),
		},
	})
}
