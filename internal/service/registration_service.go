package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/maml-online/internal/auth"
	"github.com/spec-kit/maml-online/internal/domain"
	"github.com/spec-kit/maml-online/internal/events"
	apperrors "github.com/spec-kit/maml-online/pkg/util/errorutil"
)

const maxFieldLength = 120

// Registry is the part of the session store registration writes to.
type Registry interface {
	CreateParticipant(name, school string, grade uint8) (domain.ParticipantID, error)
	CreateAdmin(school string) (domain.AdminID, error)
}

// RegistrationService validates registrations, mints identities and
// announces them on the dispatcher.
type RegistrationService struct {
	registry   Registry
	adminKeys  *auth.AdminKeyChecker
	dispatcher events.Dispatcher
	logger     *zap.Logger
	clock      func() time.Time
}

// RegistrationDependencies encapsulates collaborators of the registration service.
type RegistrationDependencies struct {
	Registry   Registry
	AdminKeys  *auth.AdminKeyChecker
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewRegistrationService builds the service.
func NewRegistrationService(deps RegistrationDependencies) *RegistrationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{
		registry:   deps.Registry,
		adminKeys:  deps.AdminKeys,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		clock:      time.Now,
	}
}

// RegisterParticipant creates a participant record.
func (s *RegistrationService) RegisterParticipant(ctx context.Context, name, school string, grade uint8) (domain.Participant, error) {
	name = strings.TrimSpace(name)
	school = strings.TrimSpace(school)

	details := map[string]any{}
	checkField(details, "name", name)
	checkField(details, "school", school)
	if grade == 0 {
		details["grade"] = "required"
	}
	if len(details) > 0 {
		return domain.Participant{}, apperrors.NewValidationError("invalid registration", details)
	}

	id, err := s.registry.CreateParticipant(name, school, grade)
	if err != nil {
		return domain.Participant{}, apperrors.NewInternalError(err)
	}
	participant := domain.Participant{ID: id, Name: name, School: school, Grade: grade}

	s.publish(ctx, events.Event{
		Type:    events.EventParticipantRegistered,
		Role:    domain.RoleParticipant,
		School:  school,
		Payload: events.ParticipantRegisteredPayload{Name: name, Grade: grade},
	})
	return participant, nil
}

// RegisterAdmin creates an admin record after checking the registration key.
func (s *RegistrationService) RegisterAdmin(ctx context.Context, school, key string) (domain.Admin, error) {
	school = strings.TrimSpace(school)

	details := map[string]any{}
	checkField(details, "school", school)
	if len(details) > 0 {
		return domain.Admin{}, apperrors.NewValidationError("invalid registration", details)
	}

	if err := s.adminKeys.Check(key); err != nil {
		if errors.Is(err, auth.ErrInvalidAdminKey) {
			return domain.Admin{}, apperrors.NewForbidden(err.Error())
		}
		return domain.Admin{}, apperrors.NewInternalError(err)
	}

	id, err := s.registry.CreateAdmin(school)
	if err != nil {
		return domain.Admin{}, apperrors.NewInternalError(err)
	}
	admin := domain.Admin{ID: id, School: school}

	s.publish(ctx, events.Event{
		Type:    events.EventAdminRegistered,
		Role:    domain.RoleAdmin,
		School:  school,
		Payload: events.AdminRegisteredPayload{},
	})
	return admin, nil
}

// publish announces a registration. Feed failures never fail the registration.
func (s *RegistrationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.clock().UTC()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("registration feed delivery failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}

func checkField(details map[string]any, field, value string) {
	switch {
	case value == "":
		details[field] = "required"
	case utf8.RuneCountInString(value) > maxFieldLength:
		details[field] = "too long"
	}
}
