package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Token is the identity carried by the `id` cookie: either a ParticipantID or
// an AdminID. The zero Token carries no identity.
type Token struct {
	role Role
	id   uuid.UUID
}

// ParticipantToken wraps a participant id.
func ParticipantToken(id ParticipantID) Token {
	return Token{role: RoleParticipant, id: uuid.UUID(id)}
}

// AdminToken wraps an admin id.
func AdminToken(id AdminID) Token {
	return Token{role: RoleAdmin, id: uuid.UUID(id)}
}

// Role reports which kind of identity the token carries.
func (t Token) Role() Role { return t.role }

// IsZero reports whether the token carries no identity.
func (t Token) IsZero() bool { return t.role == 0 }

// Participant returns the participant id when the token is a participant token.
func (t Token) Participant() (ParticipantID, bool) {
	if t.role != RoleParticipant {
		return ParticipantID{}, false
	}
	return ParticipantID(t.id), true
}

// Admin returns the admin id when the token is an admin token.
func (t Token) Admin() (AdminID, bool) {
	if t.role != RoleAdmin {
		return AdminID{}, false
	}
	return AdminID(t.id), true
}

// String encodes the token as "P<digits>" or "A<digits>".
func (t Token) String() string {
	if t.IsZero() {
		return ""
	}
	return string(t.role.Tag()) + formatDecimal(t.id)
}

// MarshalText encodes the token with String.
func (t Token) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText decodes the token with ParseToken.
func (t *Token) UnmarshalText(b []byte) error {
	parsed, err := ParseToken(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseToken decodes the canonical encoding. The tag is matched case-insensitively;
// anything else, including an empty string, yields ErrMalformedToken.
func ParseToken(s string) (Token, error) {
	if s == "" {
		return Token{}, fmt.Errorf("%w: empty", ErrMalformedToken)
	}

	var role Role
	switch s[0] {
	case 'p', 'P':
		role = RoleParticipant
	case 'a', 'A':
		role = RoleAdmin
	default:
		return Token{}, fmt.Errorf("%w: unknown tag %q", ErrMalformedToken, s[0])
	}

	id, err := parseDecimal(s[1:])
	if err != nil {
		return Token{}, err
	}
	return Token{role: role, id: id}, nil
}

// Equal reports whether both tokens carry the same identity.
func (t Token) Equal(o Token) bool {
	return t.role == o.role && t.id == o.id
}
