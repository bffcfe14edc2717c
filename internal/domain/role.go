package domain

// Role differentiates the two kinds of identity a token can carry.
type Role uint8

const (
	RoleParticipant Role = iota + 1
	RoleAdmin
)

// Tag is the leading character of the canonical token encoding for the role.
func (r Role) Tag() byte {
	switch r {
	case RoleParticipant:
		return 'P'
	case RoleAdmin:
		return 'A'
	default:
		return 0
	}
}

func (r Role) String() string {
	switch r {
	case RoleParticipant:
		return "participant"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// MarshalText renders the role name.
func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }
