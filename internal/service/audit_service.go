package service

import (
	"context"

	"simvado-be/internal/pkg/logger"
	"simvado-be/pkg/events"
	"simvado-be/pkg/nats"
)

const (
	auditSubject = nats.SubjectPrefix + ">"
	auditDurable = "simvado-audit"
)

// EventSubscriber is satisfied by *nats.Subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler nats.EventHandler) error
}

type IAuditService interface {
	Start(ctx context.Context) error
}

// auditService copies every outbound domain event into a dedicated log file.
type auditService struct {
	subscriber EventSubscriber
	eventLog   logger.ILogger
}

func NewAuditService(subscriber EventSubscriber, eventLog logger.ILogger) IAuditService {
	if eventLog == nil {
		eventLog = logger.NewNopLogger()
	}
	return &auditService{
		subscriber: subscriber,
		eventLog:   eventLog,
	}
}

func (s *auditService) Start(ctx context.Context) error {
	if s.subscriber == nil {
		return nil
	}
	return s.subscriber.Subscribe(ctx, auditSubject, auditDurable, s.Handle)
}

func (s *auditService) Handle(_ context.Context, event events.Event) error {
	details := map[string]interface{}{
		"type":        event.EventType(),
		"occurred_at": event.Timestamp(),
	}
	for k, v := range event.Payload() {
		if _, taken := details[k]; !taken {
			details[k] = v
		}
	}
	s.eventLog.Info("AUDIT", event.EventType(), details)
	return nil
}
