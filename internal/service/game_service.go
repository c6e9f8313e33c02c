package service

import (
	"context"
	"fmt"
	"time"

	"simvado-be/internal/dto"
	"simvado-be/internal/entity"
	"simvado-be/internal/pkg/apperr"
	"simvado-be/internal/pkg/logger"
	"simvado-be/internal/repository/specification"
	"simvado-be/internal/repository/unitofwork"
	"simvado-be/pkg/debrief"
	"simvado-be/pkg/events"
	"simvado-be/pkg/lock"
	"simvado-be/pkg/metrics"

	"github.com/google/uuid"
)

var errSessionCompleted = apperr.BadRequest("Session already completed")

// IGameService is the surface used by external game engines. It records
// what the engine reports and never walks the decision graph.
type IGameService interface {
	CreateSession(ctx context.Context, req *dto.CreateGameSessionRequest) (*dto.CreateGameSessionResponse, error)
	ReportEvents(ctx context.Context, sessionId uuid.UUID, reqs []dto.GameEventRequest) (*dto.ReportEventsResponse, error)
	ListEvents(ctx context.Context, sessionId uuid.UUID) ([]dto.GameEventResponse, error)
	GetSession(ctx context.Context, sessionId uuid.UUID) (*dto.GameSessionResponse, error)
	Complete(ctx context.Context, sessionId uuid.UUID, req *dto.CompleteGameSessionRequest) (*dto.CompleteGameSessionResponse, error)
}

type gameService struct {
	uowFactory unitofwork.RepositoryFactory
	locker     *lock.SessionLocker
	generator  *debrief.Generator
	events     events.Publisher
	notifier   *completionNotifier
	logger     logger.ILogger
}

func NewGameService(
	uowFactory unitofwork.RepositoryFactory,
	locker *lock.SessionLocker,
	generator *debrief.Generator,
	publisherService IPublisherService,
	eventPublisher events.Publisher,
	rec *metrics.Recorder,
	log logger.ILogger,
) IGameService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &gameService{
		uowFactory: uowFactory,
		locker:     locker,
		generator:  generator,
		events:     eventPublisher,
		notifier:   newCompletionNotifier(publisherService, eventPublisher, rec, log),
		logger:     log,
	}
}

func (s *gameService) CreateSession(ctx context.Context, req *dto.CreateGameSessionRequest) (*dto.CreateGameSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}

	module, err := uow.ModuleRepository().FindOne(ctx, specification.ByID{ID: req.ModuleId})
	if err != nil {
		return nil, err
	}
	if module == nil {
		return nil, errModuleNotFound
	}

	platform := module.Platform
	if req.Platform != nil {
		platform = entity.Platform(*req.Platform)
	}
	if platform == "" {
		platform = entity.PlatformOther
	}

	now := time.Now()
	session := entity.Session{
		Id:                uuid.New(),
		UserId:            user.Id,
		ModuleId:          module.Id,
		OrganizationId:    user.OrganizationId,
		Status:            entity.SessionStatusNotStarted,
		Platform:          platform,
		ExternalSessionId: req.ExternalSessionId,
		LaunchUrl:         module.LaunchUrl,
		StartedAt:         now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uow.SessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	s.logger.Info("GAME", "Game session created", map[string]interface{}{
		"session_id": session.Id.String(),
		"platform":   string(platform),
	})

	return &dto.CreateGameSessionResponse{
		SessionId:         session.Id,
		ExternalSessionId: session.ExternalSessionId,
	}, nil
}

// ReportEvents stores a batch of events atomically. One invalid type
// rejects the whole batch.
func (s *gameService) ReportEvents(ctx context.Context, sessionId uuid.UUID, reqs []dto.GameEventRequest) (*dto.ReportEventsResponse, error) {
	if len(reqs) == 0 {
		return nil, apperr.BadRequest("At least one event is required")
	}

	now := time.Now()
	batch := make([]*entity.GameEvent, 0, len(reqs))
	types := make([]string, 0, len(reqs))
	for _, r := range reqs {
		t := entity.GameEventType(r.EventType)
		if !t.IsValid() {
			return nil, apperr.BadRequest(fmt.Sprintf("Invalid eventType: %s", r.EventType))
		}
		data := r.EventData
		if data == nil {
			data = map[string]interface{}{}
		}
		ts := now
		if r.Timestamp != nil {
			ts = *r.Timestamp
		}
		batch = append(batch, &entity.GameEvent{
			Id:        uuid.New(),
			SessionId: sessionId,
			EventType: t,
			EventData: data,
			Timestamp: ts,
		})
		types = append(types, r.EventType)
	}

	err := s.locker.WithLock(ctx, sessionId.String(), func(ctx context.Context) error {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		session, err := loadSession(ctx, uow, sessionId)
		if err != nil {
			return err
		}

		if err := uow.Begin(ctx); err != nil {
			return err
		}
		defer uow.Rollback()

		if err := uow.GameEventRepository().CreateBatch(ctx, batch); err != nil {
			return err
		}
		if session.Status == entity.SessionStatusNotStarted {
			if _, err := uow.SessionRepository().Advance(ctx, session.Id, session.CurrentNodeKey, session.DecisionCount); err != nil {
				return err
			}
		}
		return uow.Commit()
	})
	if err != nil {
		return nil, mapLockError(err)
	}

	if s.events != nil {
		s.events.PublishGameEventsReported(ctx, sessionId, types)
	}

	ids := make([]uuid.UUID, len(batch))
	for i, e := range batch {
		ids[i] = e.Id
	}
	return &dto.ReportEventsResponse{EventIds: ids}, nil
}

func (s *gameService) ListEvents(ctx context.Context, sessionId uuid.UUID) ([]dto.GameEventResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := loadSession(ctx, uow, sessionId); err != nil {
		return nil, err
	}
	return s.listEvents(ctx, uow, sessionId)
}

func (s *gameService) listEvents(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) ([]dto.GameEventResponse, error) {
	found, err := uow.GameEventRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "timestamp"},
	)
	if err != nil {
		return nil, err
	}
	res := make([]dto.GameEventResponse, 0, len(found))
	for _, e := range found {
		res = append(res, toGameEventResponse(e))
	}
	return res, nil
}

func (s *gameService) GetSession(ctx context.Context, sessionId uuid.UUID) (*dto.GameSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := loadSession(ctx, uow, sessionId)
	if err != nil {
		return nil, err
	}
	gameEvents, err := s.listEvents(ctx, uow, sessionId)
	if err != nil {
		return nil, err
	}

	res := &dto.GameSessionResponse{
		Id:                   session.Id,
		Status:               string(session.Status),
		Platform:             string(session.Platform),
		ExternalSessionId:    session.ExternalSessionId,
		LaunchUrl:            session.LaunchUrl,
		StartedAt:            session.StartedAt,
		CompletedAt:          session.CompletedAt,
		TotalDurationSeconds: session.TotalDurationSeconds,
		FinalScores:          session.FinalScores,
		DebriefText:          session.DebriefText,
		GameEvents:           gameEvents,
	}

	if user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: session.UserId}); err != nil {
		return nil, err
	} else if user != nil {
		res.User = &dto.GameSessionUser{Id: user.Id, Name: user.Name, Email: user.Email}
	}
	if module, err := uow.ModuleRepository().FindOne(ctx, specification.ByID{ID: session.ModuleId}); err != nil {
		return nil, err
	} else if module != nil {
		res.Module = &dto.GameSessionModule{Id: module.Id, Title: module.Title, Slug: module.Slug}
	}
	return res, nil
}

// Complete finalizes a session with scores computed by the game engine.
// It shares the conditional finalize and assignment flip with the player path.
func (s *gameService) Complete(ctx context.Context, sessionId uuid.UUID, req *dto.CompleteGameSessionRequest) (*dto.CompleteGameSessionResponse, error) {
	var (
		res     *dto.CompleteGameSessionResponse
		session *entity.Session
		fin     entity.Finalization
		flipped []*entity.Assignment
	)

	err := s.locker.WithLock(ctx, sessionId.String(), func(ctx context.Context) error {
		uow := s.uowFactory.NewUnitOfWork(ctx)

		var err error
		session, err = loadSession(ctx, uow, sessionId)
		if err != nil {
			return err
		}
		if session.IsCompleted() {
			return errSessionCompleted
		}

		module, err := loadModule(ctx, uow, session.ModuleId)
		if err != nil {
			return err
		}
		prior, err := uow.GameEventRepository().FindAll(ctx,
			specification.BySessionID{SessionID: session.Id},
			specification.OrderBy{Field: "timestamp"},
		)
		if err != nil {
			return err
		}

		generated := true
		text, genErr := s.generator.TryDebrief(ctx, gameDebriefPrompt(module, req.FinalScores, req.TotalDurationSeconds, req.Summary, prior))
		if genErr != nil {
			text = debrief.Placeholder
			generated = false
		}

		completionData := map[string]interface{}{
			"finalScores":          req.FinalScores,
			"totalDurationSeconds": req.TotalDurationSeconds,
			"summary":              req.Summary,
		}
		now := time.Now()
		fin = entity.Finalization{
			CompletedAt:          now,
			TotalDurationSeconds: req.TotalDurationSeconds,
			FinalScores:          req.FinalScores,
			DebriefText:          &text,
			DecisionCount:        session.DecisionCount,
		}

		if err := uow.Begin(ctx); err != nil {
			return err
		}
		defer uow.Rollback()

		if err := uow.GameEventRepository().CreateBatch(ctx, []*entity.GameEvent{{
			Id:        uuid.New(),
			SessionId: session.Id,
			EventType: entity.GameEventCompletion,
			EventData: completionData,
			Timestamp: now,
		}}); err != nil {
			return err
		}

		var ok bool
		flipped, ok, err = finalizeInTx(ctx, uow, session, fin)
		if err != nil {
			return err
		}
		if !ok {
			return errSessionCompleted
		}
		if err := uow.Commit(); err != nil {
			return err
		}

		res = &dto.CompleteGameSessionResponse{
			Status:           string(entity.SessionStatusCompleted),
			DebriefGenerated: generated,
		}
		return nil
	})
	if err != nil {
		return nil, mapLockError(err)
	}

	s.logger.Info("GAME", "Game session completed", map[string]interface{}{
		"session_id":        session.Id.String(),
		"debrief_generated": res.DebriefGenerated,
		"assignments":       len(flipped),
	})
	s.notifier.SessionCompleted(ctx, session, metrics.PathGame, fin.FinalScores, flipped)
	return res, nil
}
