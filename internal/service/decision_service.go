package service

import (
	"context"
	"errors"
	"time"

	"simvado-be/internal/dto"
	"simvado-be/internal/entity"
	"simvado-be/internal/pkg/apperr"
	"simvado-be/internal/pkg/logger"
	"simvado-be/internal/repository/unitofwork"
	"simvado-be/pkg/debrief"
	"simvado-be/pkg/events"
	"simvado-be/pkg/lock"
	"simvado-be/pkg/metrics"
	"simvado-be/pkg/scoring"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IDecisionService interface {
	Submit(ctx context.Context, userId, sessionId uuid.UUID, req *dto.SubmitDecisionRequest) (*dto.SubmitDecisionResponse, error)
}

type decisionService struct {
	uowFactory unitofwork.RepositoryFactory
	graphs     IGraphStore
	locker     *lock.SessionLocker
	generator  *debrief.Generator
	events     events.Publisher
	notifier   *completionNotifier
	metrics    *metrics.Recorder
	logger     logger.ILogger
}

func NewDecisionService(
	uowFactory unitofwork.RepositoryFactory,
	graphs IGraphStore,
	locker *lock.SessionLocker,
	generator *debrief.Generator,
	publisherService IPublisherService,
	eventPublisher events.Publisher,
	rec *metrics.Recorder,
	log logger.ILogger,
) IDecisionService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &decisionService{
		uowFactory: uowFactory,
		graphs:     graphs,
		locker:     locker,
		generator:  generator,
		events:     eventPublisher,
		notifier:   newCompletionNotifier(publisherService, eventPublisher, rec, log),
		metrics:    rec,
		logger:     log,
	}
}

// Submit records one decision. Submissions for the same session are
// serialized; the decision row, session progress and finalization are
// written in one transaction.
func (s *decisionService) Submit(ctx context.Context, userId, sessionId uuid.UUID, req *dto.SubmitDecisionRequest) (*dto.SubmitDecisionResponse, error) {
	var res *dto.SubmitDecisionResponse
	err := s.locker.WithLock(ctx, sessionId.String(), func(ctx context.Context) error {
		var err error
		res, err = s.submit(ctx, userId, sessionId, req)
		return err
	})
	if err != nil {
		return nil, mapLockError(err)
	}
	return res, nil
}

func (s *decisionService) submit(ctx context.Context, userId, sessionId uuid.UUID, req *dto.SubmitDecisionRequest) (*dto.SubmitDecisionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := loadOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}
	if !session.AcceptsDecisions() {
		return nil, errSessionNotFound
	}

	g, err := s.graphs.Load(ctx, session.ModuleId)
	if err != nil {
		return nil, err
	}

	node, _, err := g.Graph.NodeOfOption(req.OptionId)
	if err != nil {
		return nil, errOptionNotFound
	}
	option := g.Option(req.OptionId)
	nodeContent := g.Node(node.Key)

	current, err := currentNode(ctx, uow, session, g)
	if err != nil {
		return nil, err
	}
	if current.Key != node.Key {
		return nil, apperr.BadRequest("Option does not belong to the current decision")
	}

	decisions, err := sessionDecisions(ctx, uow, session.Id)
	if err != nil {
		return nil, err
	}
	deltas, err := replayDeltas(g, decisions)
	if err != nil {
		return nil, err
	}
	running := scoring.Final(append(deltas, option.ScoreImpacts))

	reaction := s.generator.Reaction(ctx, nodeContent.AiPromptTemplate, option.Label, option.Description)

	now := time.Now()
	decision := entity.SessionDecision{
		Id:                 uuid.New(),
		SessionId:          session.Id,
		Sequence:           len(decisions) + 1,
		DecisionNodeId:     nodeContent.Id,
		SelectedOptionId:   option.Id,
		TimeSpentSeconds:   req.TimeSpentSeconds,
		AiDialogueResponse: reaction,
		ScoreSnapshot:      running,
		DecidedAt:          now,
	}

	terminal := option.IsTerminal()
	var (
		final scoring.FinalScores
		fin   entity.Finalization
	)
	if terminal {
		final = scoring.Finalize(running)
		history := append(decisions, &decision)
		duration := totalDuration(history)

		module, err := loadModule(ctx, uow, session.ModuleId)
		if err != nil {
			return nil, err
		}
		text := s.generator.Debrief(ctx, decisionDebriefPrompt(module, g, history, final, duration))

		fin = entity.Finalization{
			CompletedAt:          time.Now(),
			TotalDurationSeconds: &duration,
			FinalScores:          final.Map(),
			DebriefText:          &text,
			DecisionCount:        decision.Sequence,
		}
	}

	flipped, err := s.record(ctx, uow, session, &decision, option.NextNodeKey, terminal, fin)
	if err != nil {
		return nil, err
	}

	s.metrics.DecisionRecorded()
	if s.events != nil {
		s.events.PublishDecisionRecorded(ctx, session.Id, session.UserId, decision.Sequence, node.Key, terminal)
	}

	res := &dto.SubmitDecisionResponse{
		ConsequenceVideoUrl: option.ConsequenceVideoUrl,
		AiDialogue:          reaction,
		RunningScores:       running,
		IsComplete:          terminal,
	}
	if terminal {
		s.logger.Info("SCORING", "Session completed", map[string]interface{}{
			"session_id":  session.Id.String(),
			"total":       final.Total,
			"grade":       final.Grade,
			"decisions":   decision.Sequence,
			"assignments": len(flipped),
		})
		s.notifier.SessionCompleted(ctx, session, metrics.PathPlayer, fin.FinalScores, flipped)
	} else {
		res.NextNodeKey = option.NextNodeKey
	}
	return res, nil
}

func (s *decisionService) record(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	session *entity.Session,
	decision *entity.SessionDecision,
	nextNodeKey *string,
	terminal bool,
	fin entity.Finalization,
) ([]*entity.Assignment, error) {
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.SessionDecisionRepository().Create(ctx, decision); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("Decision already recorded").Wrap(err)
		}
		return nil, err
	}

	var flipped []*entity.Assignment
	if terminal {
		var ok bool
		var err error
		flipped, ok, err = finalizeInTx(ctx, uow, session, fin)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errSessionNotFound
		}
	} else {
		ok, err := uow.SessionRepository().Advance(ctx, session.Id, nextNodeKey, decision.Sequence)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errSessionNotFound
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return flipped, nil
}
