package domain

import (
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// ParticipantID identifies a registered participant. It is an opaque 128-bit value.
type ParticipantID uuid.UUID

// AdminID identifies a registered admin. It is an opaque 128-bit value.
type AdminID uuid.UUID

// NewParticipantID draws a fresh random participant id.
func NewParticipantID() (ParticipantID, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return ParticipantID{}, err
	}
	return ParticipantID(u), nil
}

// NewAdminID draws a fresh random admin id.
func NewAdminID() (AdminID, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return AdminID{}, err
	}
	return AdminID(u), nil
}

// String returns the decimal encoding of the id.
func (id ParticipantID) String() string { return formatDecimal(id) }

// String returns the decimal encoding of the id.
func (id AdminID) String() string { return formatDecimal(id) }

// MarshalText encodes the id as a decimal string.
func (id ParticipantID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText decodes a decimal string produced by MarshalText.
func (id *ParticipantID) UnmarshalText(b []byte) error {
	v, err := parseDecimal(string(b))
	if err != nil {
		return err
	}
	*id = ParticipantID(v)
	return nil
}

// MarshalText encodes the id as a decimal string.
func (id AdminID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText decodes a decimal string produced by MarshalText.
func (id *AdminID) UnmarshalText(b []byte) error {
	v, err := parseDecimal(string(b))
	if err != nil {
		return err
	}
	*id = AdminID(v)
	return nil
}

// formatDecimal renders 16 big-endian bytes as an unsigned decimal integer.
func formatDecimal(b [16]byte) string {
	return new(big.Int).SetBytes(b[:]).String()
}

// parseDecimal is the inverse of formatDecimal. Only ASCII digits are accepted
// and the value must fit in 128 bits.
func parseDecimal(s string) ([16]byte, error) {
	var out [16]byte
	if s == "" {
		return out, fmt.Errorf("%w: empty id", ErrMalformedToken)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return out, fmt.Errorf("%w: invalid digit %q", ErrMalformedToken, s[i])
		}
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.BitLen() > 128 {
		return out, fmt.Errorf("%w: id out of range", ErrMalformedToken)
	}
	v.FillBytes(out[:])
	return out, nil
}
