package service

import (
	"context"
	"time"

	"simvado-be/internal/dto"
	"simvado-be/internal/entity"
	"simvado-be/internal/pkg/apperr"
	"simvado-be/internal/pkg/logger"
	"simvado-be/internal/repository/specification"
	"simvado-be/internal/repository/unitofwork"
	"simvado-be/pkg/debrief"
	"simvado-be/pkg/scoring"

	"github.com/google/uuid"
)

type ISessionService interface {
	Start(ctx context.Context, userId uuid.UUID, req *dto.StartSessionRequest) (*dto.StartSessionResponse, error)
	CurrentNode(ctx context.Context, userId, sessionId uuid.UUID) (*dto.CurrentNodeResponse, error)
	Results(ctx context.Context, userId, sessionId uuid.UUID) (*dto.SessionResultsResponse, error)
	Debrief(ctx context.Context, userId, sessionId uuid.UUID) (*dto.DebriefResponse, error)
	Analytics(ctx context.Context, userId, sessionId uuid.UUID) (*dto.AnalyticsResponse, error)
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
	graphs     IGraphStore
	generator  *debrief.Generator
	logger     logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	graphs IGraphStore,
	generator *debrief.Generator,
	log logger.ILogger,
) ISessionService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &sessionService{
		uowFactory: uowFactory,
		graphs:     graphs,
		generator:  generator,
		logger:     log,
	}
}

func (s *sessionService) Start(ctx context.Context, userId uuid.UUID, req *dto.StartSessionRequest) (*dto.StartSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
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
	if module == nil || !module.IsPublished() {
		return nil, errModuleNotFound
	}

	if user.IsFreeTier() && !module.IsFreeDemo {
		return nil, apperr.Forbidden("Upgrade to Pro to access this module")
	}

	now := time.Now()
	session := entity.Session{
		Id:             uuid.New(),
		UserId:         user.Id,
		ModuleId:       module.Id,
		OrganizationId: user.OrganizationId,
		Status:         entity.SessionStatusInProgress,
		Platform:       module.Platform,
		LaunchUrl:      module.LaunchUrl,
		StartedAt:      now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uow.SessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	s.logger.Info("SESSION", "Session started", map[string]interface{}{
		"session_id": session.Id.String(),
		"user_id":    user.Id.String(),
		"module_id":  module.Id.String(),
	})

	return &dto.StartSessionResponse{SessionId: session.Id}, nil
}

func (s *sessionService) CurrentNode(ctx context.Context, userId, sessionId uuid.UUID) (*dto.CurrentNodeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := loadOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, errNoMoreDecisions
	}

	g, err := s.graphs.Load(ctx, session.ModuleId)
	if err != nil {
		return nil, err
	}

	node, err := currentNode(ctx, uow, session, g)
	if err != nil {
		return nil, err
	}
	content := g.Node(node.Key)

	res := &dto.CurrentNodeResponse{
		NodeKey:          content.NodeKey,
		PromptText:       content.PromptText,
		TimerSeconds:     content.TimerSeconds,
		PreVideoUrl:      content.PreVideoUrl,
		ContextDocuments: content.ContextDocuments,
		Options:          make([]dto.OptionResponse, 0, len(content.Options)),
	}
	if res.ContextDocuments == nil {
		res.ContextDocuments = []entity.ContextDocument{}
	}
	for _, o := range content.Options {
		res.Options = append(res.Options, dto.OptionResponse{
			Id:          o.Id,
			Key:         o.OptionKey,
			Label:       o.Label,
			Description: o.Description,
		})
	}
	return res, nil
}

func (s *sessionService) Results(ctx context.Context, userId, sessionId uuid.UUID) (*dto.SessionResultsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := loadOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	decisions, err := sessionDecisions(ctx, uow, session.Id)
	if err != nil {
		return nil, err
	}

	res := &dto.SessionResultsResponse{
		SessionId:            session.Id,
		ModuleId:             session.ModuleId,
		Status:               string(session.Status),
		StartedAt:            session.StartedAt,
		CompletedAt:          session.CompletedAt,
		TotalDurationSeconds: session.TotalDurationSeconds,
		FinalScores:          session.FinalScores,
		Decisions:            make([]dto.DecisionResultResponse, 0, len(decisions)),
		DebriefText:          session.DebriefText,
	}
	if len(decisions) == 0 {
		return res, nil
	}

	g, err := s.graphs.Load(ctx, session.ModuleId)
	if err != nil {
		return nil, err
	}
	for _, d := range decisions {
		item := dto.DecisionResultResponse{
			Sequence:         d.Sequence,
			TimeSpentSeconds: d.TimeSpentSeconds,
			AiDialogue:       d.AiDialogueResponse,
			Scores:           d.ScoreSnapshot,
			DecidedAt:        d.DecidedAt,
		}
		if node, opt, err := g.Graph.NodeOfOption(d.SelectedOptionId); err == nil {
			item.NodeKey = node.Key
			item.OptionKey = opt.Key
			item.OptionLabel = opt.Label
		}
		res.Decisions = append(res.Decisions, item)
	}
	return res, nil
}

// Debrief returns the stored debrief. A completed session without one is
// generated once on demand; a failed attempt answers with the placeholder
// and leaves nothing stored so a later request can retry.
func (s *sessionService) Debrief(ctx context.Context, userId, sessionId uuid.UUID) (*dto.DebriefResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := loadOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}
	if session.DebriefText != nil {
		return &dto.DebriefResponse{Debrief: *session.DebriefText, GeneratedAt: session.DebriefGeneratedAt}, nil
	}
	if !session.IsCompleted() {
		return nil, apperr.BadRequest("Session not yet completed")
	}

	prompt, err := s.onDemandPrompt(ctx, uow, session)
	if err != nil {
		return nil, err
	}

	text, err := s.generator.TryDebrief(ctx, prompt)
	if err != nil {
		return &dto.DebriefResponse{Debrief: debrief.Placeholder}, nil
	}

	stored, err := uow.SessionRepository().SaveDebrief(ctx, session.Id, text)
	if err != nil {
		return nil, err
	}
	if !stored {
		// lost the race to a concurrent request; serve what it stored
		latest, err := loadSession(ctx, uow, session.Id)
		if err != nil {
			return nil, err
		}
		if latest.DebriefText != nil {
			return &dto.DebriefResponse{Debrief: *latest.DebriefText, GeneratedAt: latest.DebriefGeneratedAt}, nil
		}
	}

	now := time.Now()
	return &dto.DebriefResponse{Debrief: text, GeneratedAt: &now}, nil
}

func (s *sessionService) onDemandPrompt(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.Session) (string, error) {
	module, err := loadModule(ctx, uow, session.ModuleId)
	if err != nil {
		return "", err
	}

	decisions, err := sessionDecisions(ctx, uow, session.Id)
	if err != nil {
		return "", err
	}
	if len(decisions) > 0 {
		g, err := s.graphs.Load(ctx, session.ModuleId)
		if err != nil {
			return "", err
		}
		final := scoring.Finalize(decisions[len(decisions)-1].ScoreSnapshot)
		return decisionDebriefPrompt(module, g, decisions, final, totalDuration(decisions)), nil
	}

	gameEvents, err := uow.GameEventRepository().FindAll(ctx,
		specification.BySessionID{SessionID: session.Id},
		specification.OrderBy{Field: "timestamp"},
	)
	if err != nil {
		return "", err
	}
	return gameDebriefPrompt(module, session.FinalScores, session.TotalDurationSeconds, nil, gameEvents), nil
}

func (s *sessionService) Analytics(ctx context.Context, userId, sessionId uuid.UUID) (*dto.AnalyticsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := loadOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}
	module, err := loadModule(ctx, uow, session.ModuleId)
	if err != nil {
		return nil, err
	}
	gameEvents, err := uow.GameEventRepository().FindAll(ctx,
		specification.BySessionID{SessionID: session.Id},
		specification.OrderBy{Field: "timestamp"},
	)
	if err != nil {
		return nil, err
	}

	timeline := dto.AnalyticsTimeline{
		Decisions:    []dto.GameEventResponse{},
		Milestones:   []dto.GameEventResponse{},
		ScoreUpdates: []dto.GameEventResponse{},
		TotalEvents:  len(gameEvents),
	}
	for _, e := range gameEvents {
		switch e.EventType {
		case entity.GameEventDecision:
			timeline.Decisions = append(timeline.Decisions, toGameEventResponse(e))
		case entity.GameEventMilestone:
			timeline.Milestones = append(timeline.Milestones, toGameEventResponse(e))
		case entity.GameEventScoreUpdate:
			timeline.ScoreUpdates = append(timeline.ScoreUpdates, toGameEventResponse(e))
		}
	}

	return &dto.AnalyticsResponse{
		Session: dto.AnalyticsSession{
			Id:                   session.Id,
			Status:               string(session.Status),
			StartedAt:            session.StartedAt,
			CompletedAt:          session.CompletedAt,
			TotalDurationSeconds: session.TotalDurationSeconds,
			Platform:             string(session.Platform),
		},
		Simulation: dto.AnalyticsSimulation{
			Title:  module.SimulationTitle,
			Module: module.Title,
		},
		FinalScores: session.FinalScores,
		Timeline:    timeline,
	}, nil
}

func toGameEventResponse(e *entity.GameEvent) dto.GameEventResponse {
	data := e.EventData
	if data == nil {
		data = map[string]interface{}{}
	}
	return dto.GameEventResponse{
		Id:        e.Id,
		SessionId: e.SessionId,
		EventType: string(e.EventType),
		EventData: data,
		Timestamp: e.Timestamp,
	}
}
