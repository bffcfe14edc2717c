package dto

import "github.com/spec-kit/maml-online/internal/domain"

// ParticipantRegisterRequest payload for new participants.
type ParticipantRegisterRequest struct {
	Name   string `json:"name" form:"name"`
	School string `json:"school" form:"school"`
	Grade  uint8  `json:"grade" form:"grade"`
}

// AdminRegisterRequest payload for new admins.
type AdminRegisterRequest struct {
	School string `json:"school" form:"school"`
	Key    string `json:"key" form:"key"`
}

// IdentityResponse describes the caller's resolved identity. The token itself
// is only ever carried by the HttpOnly cookie.
type IdentityResponse struct {
	Role domain.Role `json:"role"`
}
