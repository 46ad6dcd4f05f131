package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jeerawut3427/personal-system/internal/config"
	"github.com/jeerawut3427/personal-system/internal/events"
)

// AuditService records security-relevant domain events to a capped redis
// list. Auditing is best effort; failures are logged and never surface to the
// caller.
type AuditService struct {
	dispatcher events.Dispatcher
	client     *redis.Client
	logger     *zap.Logger
	cfg        config.AuditConfig
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, client *redis.Client, logger *zap.Logger, cfg config.AuditConfig) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		client:     client,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to all audited event types.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil || !a.cfg.Enabled {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventLoginSucceeded,
		events.EventLoginFailed,
		events.EventLoginLockedOut,
		events.EventReportSubmitted,
		events.EventReportsArchived,
		events.EventUserCreated,
		events.EventUserUpdated,
		events.EventUserDeleted,
		events.EventPersonnelImported,
	} {
		a.dispatcher.Subscribe(eventType, a.record)
	}
}

func (a *AuditService) record(ctx context.Context, event events.Event) error {
	if a.client == nil {
		return nil
	}
	entry, err := json.Marshal(event)
	if err != nil {
		a.logger.Warn("audit entry marshal failed", zap.Error(err))
		return nil
	}

	pipe := a.client.Pipeline()
	pipe.LPush(ctx, a.cfg.ListKey, entry)
	if a.cfg.MaxLen > 0 {
		pipe.LTrim(ctx, a.cfg.ListKey, 0, a.cfg.MaxLen-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		a.logger.Warn("audit write failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
	return nil
}
