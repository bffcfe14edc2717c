package dto

import "github.com/spec-kit/maml-online/internal/domain"

// LoginView is rendered for visitors without an identity.
type LoginView struct {
	Authenticated bool     `json:"authenticated"`
	Register      []string `json:"register"`
}

// ParticipantView is the public part of a participant record. The id is the
// login token and stays in the cookie.
type ParticipantView struct {
	Name   string `json:"name"`
	School string `json:"school"`
	Grade  uint8  `json:"grade"`
}

// NewParticipantView strips the id from p.
func NewParticipantView(p domain.Participant) ParticipantView {
	return ParticipantView{Name: p.Name, School: p.School, Grade: p.Grade}
}

// AdminView is the public part of an admin record.
type AdminView struct {
	School string `json:"school"`
}

// NewAdminView strips the id from a.
func NewAdminView(a domain.Admin) AdminView {
	return AdminView{School: a.School}
}

// ParticipantWelcomeView is the participant landing page.
type ParticipantWelcomeView struct {
	Role        domain.Role     `json:"role"`
	Participant ParticipantView `json:"participant"`
}

// AdminWelcomeView is the admin landing page, listing the school's participants.
type AdminWelcomeView struct {
	Role         domain.Role       `json:"role"`
	Admin        AdminView         `json:"admin"`
	Participants []ParticipantView `json:"participants"`
}

// NewAdminWelcomeView renders admin and the participants of its school.
func NewAdminWelcomeView(admin domain.Admin, participants []domain.Participant) AdminWelcomeView {
	views := make([]ParticipantView, 0, len(participants))
	for _, p := range participants {
		views = append(views, NewParticipantView(p))
	}
	return AdminWelcomeView{
		Role:         domain.RoleAdmin,
		Admin:        NewAdminView(admin),
		Participants: views,
	}
}
