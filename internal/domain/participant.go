package domain

// Participant is a student registered for the event. Records are immutable
// once created.
type Participant struct {
	ID     ParticipantID `json:"id"`
	Name   string        `json:"name"`
	School string        `json:"school"`
	Grade  uint8         `json:"grade"`
}

// Token returns the identity token for the participant.
func (p Participant) Token() Token { return ParticipantToken(p.ID) }
