// Package session holds the process-wide registry of participant and admin
// records. The registry is append-only: records are never updated or removed.
package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/spec-kit/maml-online/internal/domain"
)

// maxCreateAttempts bounds id generation when a freshly drawn id is already taken.
const maxCreateAttempts = 3

// ErrIDExhausted is returned when no free id was found within maxCreateAttempts.
var ErrIDExhausted = errors.New("session: no free id after retries")

// Store keeps participants and admins in two independently locked maps.
type Store struct {
	participantsMu sync.RWMutex
	participants   map[domain.ParticipantID]domain.Participant

	adminsMu sync.RWMutex
	admins   map[domain.AdminID]domain.Admin

	newID func() (uuid.UUID, error)
}

// NewStore returns an empty store drawing ids from crypto/rand via uuid.
func NewStore() *Store {
	return &Store{
		participants: make(map[domain.ParticipantID]domain.Participant),
		admins:       make(map[domain.AdminID]domain.Admin),
		newID:        uuid.NewRandom,
	}
}

// CreateParticipant registers a participant under a fresh random id.
func (s *Store) CreateParticipant(name, school string, grade uint8) (domain.ParticipantID, error) {
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		raw, err := s.newID()
		if err != nil {
			return domain.ParticipantID{}, fmt.Errorf("session: generate participant id: %w", err)
		}
		id := domain.ParticipantID(raw)
		if s.insertParticipant(domain.Participant{ID: id, Name: name, School: school, Grade: grade}) {
			return id, nil
		}
	}
	return domain.ParticipantID{}, ErrIDExhausted
}

func (s *Store) insertParticipant(p domain.Participant) bool {
	s.participantsMu.Lock()
	defer s.participantsMu.Unlock()

	if _, exists := s.participants[p.ID]; exists {
		return false
	}
	s.participants[p.ID] = p
	return true
}

// CreateAdmin registers an admin under a fresh random id.
func (s *Store) CreateAdmin(school string) (domain.AdminID, error) {
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		raw, err := s.newID()
		if err != nil {
			return domain.AdminID{}, fmt.Errorf("session: generate admin id: %w", err)
		}
		id := domain.AdminID(raw)
		if s.insertAdmin(domain.Admin{ID: id, School: school}) {
			return id, nil
		}
	}
	return domain.AdminID{}, ErrIDExhausted
}

func (s *Store) insertAdmin(a domain.Admin) bool {
	s.adminsMu.Lock()
	defer s.adminsMu.Unlock()

	if _, exists := s.admins[a.ID]; exists {
		return false
	}
	s.admins[a.ID] = a
	return true
}

// Has reports whether the token's id is registered under the token's role.
// Lookups never cross from one role's map into the other.
func (s *Store) Has(token domain.Token) bool {
	if id, ok := token.Participant(); ok {
		_, found := s.LookupParticipant(id)
		return found
	}
	if id, ok := token.Admin(); ok {
		_, found := s.LookupAdmin(id)
		return found
	}
	return false
}

// LookupParticipant returns the participant record, if any.
func (s *Store) LookupParticipant(id domain.ParticipantID) (domain.Participant, bool) {
	s.participantsMu.RLock()
	defer s.participantsMu.RUnlock()

	p, ok := s.participants[id]
	return p, ok
}

// LookupAdmin returns the admin record, if any.
func (s *Store) LookupAdmin(id domain.AdminID) (domain.Admin, bool) {
	s.adminsMu.RLock()
	defer s.adminsMu.RUnlock()

	a, ok := s.admins[id]
	return a, ok
}

// Participant returns the record for an id that the caller obtained from the
// authentication guard. It panics if the id is not registered.
func (s *Store) Participant(id domain.ParticipantID) domain.Participant {
	p, ok := s.LookupParticipant(id)
	if !ok {
		panic(fmt.Sprintf("session: participant %s not registered", id))
	}
	return p
}

// Admin returns the record for an id that the caller obtained from the
// authentication guard. It panics if the id is not registered.
func (s *Store) Admin(id domain.AdminID) domain.Admin {
	a, ok := s.LookupAdmin(id)
	if !ok {
		panic(fmt.Sprintf("session: admin %s not registered", id))
	}
	return a
}

// Counts returns the number of registered participants and admins.
func (s *Store) Counts() (participants, admins int) {
	s.participantsMu.RLock()
	participants = len(s.participants)
	s.participantsMu.RUnlock()

	s.adminsMu.RLock()
	admins = len(s.admins)
	s.adminsMu.RUnlock()
	return participants, admins
}

// ParticipantsBySchool returns the participants registered for school, sorted by name.
func (s *Store) ParticipantsBySchool(school string) []domain.Participant {
	s.participantsMu.RLock()
	out := make([]domain.Participant, 0)
	for _, p := range s.participants {
		if p.School == school {
			out = append(out, p)
		}
	}
	s.participantsMu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
