package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"simvado-be/internal/dto"
	"simvado-be/internal/entity"
	"simvado-be/internal/pkg/logger"
	"simvado-be/internal/pkg/mailer"
	"simvado-be/internal/repository/specification"
	"simvado-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	mail       mailer.IEmailService
	baseURL    string
	logger     logger.ILogger
}

// NewConsumerService handles session-completed messages by notifying the
// assigners of every assignment the session completed.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	mail mailer.IEmailService,
	baseURL string,
	log logger.ILogger,
) IConsumerService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		mail:       mail,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks. Notices are best effort and a redelivery
// would mail the same assigner twice.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.SessionCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	cs.logger.Info("CONSUMER", "Session completed", map[string]interface{}{
		"session_id":  payload.SessionId.String(),
		"path":        payload.Path,
		"grade":       payload.Grade,
		"assignments": len(payload.Assignments),
	})

	if len(payload.Assignments) == 0 || cs.mail == nil {
		return
	}

	sent, err := cs.notifyAssigners(ctx, payload)
	if err != nil {
		cs.logger.Error("CONSUMER", "Failed to notify assigners", map[string]interface{}{
			"session_id": payload.SessionId.String(),
			"error":      err.Error(),
		})
		return
	}
	cs.logger.Info("CONSUMER", "Assignment notices sent", map[string]interface{}{
		"session_id": payload.SessionId.String(),
		"sent":       sent,
	})
}

func (cs *consumerService) notifyAssigners(ctx context.Context, payload dto.SessionCompletedMessage) (int, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	assignments, err := uow.AssignmentRepository().FindAll(ctx, specification.ByIDs{IDs: payload.Assignments})
	if err != nil {
		return 0, err
	}

	player, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: payload.UserId})
	if err != nil {
		return 0, err
	}
	module, err := uow.ModuleRepository().FindOne(ctx, specification.ByID{ID: payload.ModuleId})
	if err != nil {
		return 0, err
	}

	notice := mailer.AssignmentCompletedNotice{
		PlayerName:  "A player",
		ModuleTitle: "a module",
		Grade:       payload.Grade,
		CompletedAt: time.Now(),
		ResultsURL:  fmt.Sprintf("%s/sessions/%s/results", cs.baseURL, payload.SessionId),
	}
	if player != nil {
		notice.PlayerName = displayName(player)
	}
	if module != nil {
		notice.ModuleTitle = module.Title
	}
	if payload.Total != nil {
		notice.Total = *payload.Total
	}

	sent := 0
	for _, a := range assignments {
		if a.CompletedAt != nil {
			notice.CompletedAt = *a.CompletedAt
		}

		to, err := cs.recipient(ctx, uow, a)
		if err != nil {
			return sent, err
		}
		if to == "" {
			cs.logger.Debug("CONSUMER", "Assignment has no recipient", map[string]interface{}{
				"assignment_id": a.Id.String(),
			})
			continue
		}

		notice.ToEmail = to
		if err := cs.mail.SendAssignmentCompleted(notice); err != nil {
			cs.logger.Warn("CONSUMER", "Failed to send assignment notice", map[string]interface{}{
				"assignment_id": a.Id.String(),
				"error":         err.Error(),
			})
			continue
		}
		sent++
	}
	return sent, nil
}

// recipient prefers the assignment's notify address over the assigner's account.
func (cs *consumerService) recipient(ctx context.Context, uow unitofwork.UnitOfWork, a *entity.Assignment) (string, error) {
	if a.NotifyEmail != nil && *a.NotifyEmail != "" {
		return *a.NotifyEmail, nil
	}
	if a.AssignedByUserId == nil {
		return "", nil
	}
	assigner, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: *a.AssignedByUserId})
	if err != nil || assigner == nil {
		return "", err
	}
	return assigner.Email, nil
}

func displayName(u *entity.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

