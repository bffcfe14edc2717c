package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/shoenig/test/must"
	"go.uber.org/zap"

	"github.com/spec-kit/maml-online/internal/auth"
	"github.com/spec-kit/maml-online/internal/config"
	"github.com/spec-kit/maml-online/internal/domain"
	"github.com/spec-kit/maml-online/internal/events"
	"github.com/spec-kit/maml-online/internal/repository"
	"github.com/spec-kit/maml-online/internal/session"
	apperrors "github.com/spec-kit/maml-online/pkg/util/errorutil"
)

type feedStub struct {
	mu       sync.Mutex
	channel  string
	payloads [][]byte
	err      error
}

func (f *feedStub) Publish(_ context.Context, channel string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channel = channel
	f.payloads = append(f.payloads, payload)
	return f.err
}

type auditStub struct {
	mu      sync.Mutex
	entries []*repository.RegistrationLogEntry
}

func (a *auditStub) Append(_ context.Context, entry *repository.RegistrationLogEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	return nil
}

type failingRegistry struct{}

func (failingRegistry) CreateParticipant(string, string, uint8) (domain.ParticipantID, error) {
	return domain.ParticipantID{}, session.ErrIDExhausted
}

func (failingRegistry) CreateAdmin(string) (domain.AdminID, error) {
	return domain.AdminID{}, session.ErrIDExhausted
}

func newTestServices(t *testing.T, adminKeyHash string) (*RegistrationService, *session.Store, *feedStub, *auditStub) {
	t.Helper()

	store := session.NewStore()
	dispatcher := events.NewInMemoryDispatcher()
	feed := &feedStub{}
	audit := &auditStub{}
	NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{Channel: "registrations"}, feed, audit).RegisterHandlers()

	svc := NewRegistrationService(RegistrationDependencies{
		Registry:   store,
		AdminKeys:  auth.NewAdminKeyChecker(adminKeyHash),
		Dispatcher: dispatcher,
	})
	return svc, store, feed, audit
}

func statusOf(err error) int {
	return apperrors.ToDomainError(err).HTTPStatus
}

func TestRegisterParticipant(t *testing.T) {
	t.Parallel()

	svc, store, feed, audit := newTestServices(t, "")

	p, err := svc.RegisterParticipant(context.Background(), "  Ada ", "Tech High", 11)
	must.NoError(t, err)
	must.Eq(t, "Ada", p.Name)
	must.Eq(t, p, store.Participant(p.ID))

	must.Eq(t, "registrations", feed.channel)
	must.Len(t, 1, feed.payloads)
	var event map[string]any
	must.NoError(t, json.Unmarshal(feed.payloads[0], &event))
	must.Eq(t, "participant_registered", event["type"])
	must.Eq(t, "participant", event["role"])
	must.StrNotContains(t, string(feed.payloads[0]), p.ID.String())

	must.Len(t, 1, audit.entries)
	must.Eq(t, "Tech High", audit.entries[0].School)
	must.Eq(t, "Ada", *audit.entries[0].Name)
	must.Eq(t, int16(11), *audit.entries[0].Grade)
}

func TestRegisterParticipant_Validation(t *testing.T) {
	t.Parallel()

	svc, store, feed, _ := newTestServices(t, "")

	_, err := svc.RegisterParticipant(context.Background(), " ", "", 0)
	must.Eq(t, http.StatusBadRequest, statusOf(err))
	de := apperrors.ToDomainError(err)
	must.MapContainsKeys(t, de.Details, []string{"name", "school", "grade"})

	participants, _ := store.Counts()
	must.Eq(t, 0, participants)
	must.SliceEmpty(t, feed.payloads)
}

func TestRegisterAdmin(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashPassword("open-sesame", 4)
	must.NoError(t, err)
	svc, store, _, audit := newTestServices(t, hash)

	_, err = svc.RegisterAdmin(context.Background(), "Tech High", "wrong")
	must.Eq(t, http.StatusForbidden, statusOf(err))

	a, err := svc.RegisterAdmin(context.Background(), "Tech High", "open-sesame")
	must.NoError(t, err)
	must.Eq(t, "Tech High", store.Admin(a.ID).School)

	must.Len(t, 1, audit.entries)
	must.Eq(t, "admin", audit.entries[0].Role)
	must.Nil(t, audit.entries[0].Name)
}

func TestRegister_FeedFailureDoesNotFail(t *testing.T) {
	t.Parallel()

	svc, store, feed, audit := newTestServices(t, "")
	feed.err = errors.New("redis down")

	a, err := svc.RegisterAdmin(context.Background(), "Tech High", "")
	must.NoError(t, err)
	must.True(t, store.Has(a.Token()))
	must.Len(t, 1, audit.entries)
}

func TestRegister_StoreFailure(t *testing.T) {
	t.Parallel()

	svc := NewRegistrationService(RegistrationDependencies{Registry: failingRegistry{}})

	_, err := svc.RegisterParticipant(context.Background(), "Ada", "Tech High", 11)
	must.Eq(t, http.StatusInternalServerError, statusOf(err))
	must.ErrorIs(t, err, session.ErrIDExhausted)

	_, err = svc.RegisterAdmin(context.Background(), "Tech High", "")
	must.ErrorIs(t, err, session.ErrIDExhausted)
}
