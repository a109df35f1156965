package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-admin/internal/config"
	"github.com/spec-kit/helpdesk-admin/internal/events"
)

// AuditService records authentication and policy-change events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.AuditConfig
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.AuditConfig) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventLoginSucceeded, a.handleEvent)
	a.dispatcher.Subscribe(events.EventLoginFailed, a.handleEvent)
	a.dispatcher.Subscribe(events.EventTokenRefreshed, a.handleEvent)
	a.dispatcher.Subscribe(events.EventPolicyCreated, a.handleEvent)
	a.dispatcher.Subscribe(events.EventPolicyUpdated, a.handleEvent)
}

func (a *AuditService) handleEvent(ctx context.Context, event events.Event) error {
	a.logger.Info("audit",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Time("timestamp", event.Timestamp),
		zap.Any("payload", event.Payload))
	a.sendWebhookStub(ctx, event)
	return nil
}

func (a *AuditService) sendWebhookStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(a.cfg.WebhookURL) == "" {
		return
	}
	a.logger.Debug("sendAuditWebhookStub",
		zap.String("url", a.cfg.WebhookURL),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
}
