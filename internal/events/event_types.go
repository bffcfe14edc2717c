package events

import (
	"time"

	"github.com/spec-kit/maml-online/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventParticipantRegistered EventType = "participant_registered"
	EventAdminRegistered       EventType = "admin_registered"
)

// Event represents a registration emitted by services. Events never carry the
// identity token: it is the bearer secret held in the client's cookie.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Role      domain.Role `json:"role"`
	School    string      `json:"school"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ParticipantRegisteredPayload payload.
type ParticipantRegisteredPayload struct {
	Name  string `json:"name"`
	Grade uint8  `json:"grade"`
}

// AdminRegisteredPayload payload.
type AdminRegisteredPayload struct{}
