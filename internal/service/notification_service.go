package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/maml-online/internal/config"
	"github.com/spec-kit/maml-online/internal/events"
	"github.com/spec-kit/maml-online/internal/repository"
)

// FeedPublisher delivers serialized events to subscribers outside the process.
type FeedPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// NotificationService fans registration events out to the log, the Redis
// feed and the Postgres audit log. Either sink may be nil.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	feed       FeedPublisher
	auditLog   repository.RegistrationLogRepository
}

// NewNotificationService creates the service.
func NewNotificationService(
	dispatcher events.Dispatcher,
	logger *zap.Logger,
	cfg config.NotificationConfig,
	feed FeedPublisher,
	auditLog repository.RegistrationLogRepository,
) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		feed:       feed,
		auditLog:   auditLog,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventParticipantRegistered, n.handleRegistered)
	n.dispatcher.Subscribe(events.EventAdminRegistered, n.handleRegistered)
}

func (n *NotificationService) handleRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("registration",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("school", event.School))

	return errors.Join(
		n.publishFeed(ctx, event),
		n.appendAuditLog(ctx, event),
	)
}

func (n *NotificationService) publishFeed(ctx context.Context, event events.Event) error {
	if n.feed == nil || n.cfg.Channel == "" {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	if err := n.feed.Publish(ctx, n.cfg.Channel, payload); err != nil {
		return fmt.Errorf("publish event %s: %w", event.ID, err)
	}
	n.logger.Debug("registration published",
		zap.String("channel", n.cfg.Channel),
		zap.String("event_id", event.ID))
	return nil
}

func (n *NotificationService) appendAuditLog(ctx context.Context, event events.Event) error {
	if n.auditLog == nil {
		return nil
	}
	entry := &repository.RegistrationLogEntry{
		ID:         event.ID,
		EventType:  string(event.Type),
		Role:       event.Role.String(),
		School:     event.School,
		OccurredAt: event.Timestamp,
	}
	if p, ok := event.Payload.(events.ParticipantRegisteredPayload); ok {
		name := p.Name
		grade := int16(p.Grade)
		entry.Name = &name
		entry.Grade = &grade
	}
	if err := n.auditLog.Append(ctx, entry); err != nil {
		return fmt.Errorf("audit log event %s: %w", event.ID, err)
	}
	return nil
}
