package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"simvado-be/internal/entity"
	"simvado-be/internal/model"
	"simvado-be/internal/repository/memory"
	"simvado-be/internal/repository/unitofwork"
	"simvado-be/pkg/debrief"
	"simvado-be/pkg/llm"
	"simvado-be/pkg/lock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// twoStepGraph: intro -> (decide|delay) -> wrapup -> end.
const twoStepGraph = `
nodes:
  - key: intro
    sortOrder: 1
    prompt: The regulator is on the line.
    timerSeconds: 60
    aiPromptTemplate: You are the general counsel.
    contextDocuments:
      - title: Briefing
        type: memo
        content: Quarterly numbers are off.
    options:
      - key: disclose
        label: Disclose now
        description: Tell the regulator everything.
        scoreImpacts:
          ethical: 10
        nextNodeKey: wrapup
      - key: delay
        label: Buy time
        description: Ask for a week.
        scoreImpacts:
          ethical: -10
          financial: 5
        nextNodeKey: wrapup
  - key: wrapup
    sortOrder: 2
    prompt: The board wants a statement.
    options:
      - key: own_it
        label: Own it
        description: Take responsibility publicly.
        scoreImpacts:
          ethical: 10
        consequenceVideoUrl: https://cdn.example.com/own-it.mp4
      - key: deflect
        label: Deflect
        description: Blame the previous team.
        scoreImpacts:
          reputational: -20
`

type fixture struct {
	db         *gorm.DB
	uowFactory unitofwork.RepositoryFactory
	graphs     IGraphStore
	modules    IModuleService
	locker     *lock.SessionLocker
	reaction   *llm.MockProvider
	debrief    *llm.MockProvider
	generator  *debrief.Generator
	bus        *capturePublisher
	events     *captureEvents
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := unitofwork.NewRepositoryFactory(db)
	graphs := NewGraphStore(f, memory.NewGraphCache(time.Minute))

	reaction := &llm.MockProvider{Response: "Counsel nods slowly."}
	deb := &llm.MockProvider{Response: "You led with integrity."}

	return &fixture{
		db:         db,
		uowFactory: f,
		graphs:     graphs,
		modules:    NewModuleService(f, graphs, nil),
		locker:     lock.NewSessionLocker(nil, time.Second, nil),
		reaction:   reaction,
		debrief:    deb,
		generator: debrief.NewGenerator(
			debrief.NewLLMSummarizer(reaction, time.Second, 300),
			debrief.NewLLMSummarizer(deb, time.Second, 1500),
			nil, nil,
		),
		bus:    &capturePublisher{},
		events: &captureEvents{},
	}
}

func (f *fixture) sessionService() ISessionService {
	return NewSessionService(f.uowFactory, f.graphs, f.generator, nil)
}

func (f *fixture) decisionService() IDecisionService {
	return NewDecisionService(f.uowFactory, f.graphs, f.locker, f.generator, f.bus, f.events, nil, nil)
}

func (f *fixture) gameService() IGameService {
	return NewGameService(f.uowFactory, f.locker, f.generator, f.bus, f.events, nil, nil)
}

func (f *fixture) createUser(t *testing.T, tier entity.SubscriptionTier, orgId *uuid.UUID) *entity.User {
	t.Helper()
	id := uuid.New()
	u := &entity.User{
		Id:               id,
		ExternalId:       "ext-" + id.String(),
		Email:            id.String()[:8] + "@example.com",
		Name:             "Player " + id.String()[:4],
		Role:             entity.UserRoleUser,
		SubscriptionTier: tier,
		OrganizationId:   orgId,
	}
	require.NoError(t, f.uowFactory.NewUnitOfWork(context.Background()).UserRepository().Create(context.Background(), u))
	return u
}

// createModule stores a draft module and imports doc as its graph.
func (f *fixture) createModule(t *testing.T, doc string, freeDemo bool) *entity.Module {
	t.Helper()
	ctx := context.Background()
	uow := f.uowFactory.NewUnitOfWork(ctx)

	sim := &entity.Simulation{Id: uuid.New(), Title: "Harbor Bank", Slug: "harbor-" + uuid.NewString()[:8]}
	require.NoError(t, uow.SimulationRepository().Create(ctx, sim))

	m := &entity.Module{
		Id:               uuid.New(),
		SimulationId:     sim.Id,
		Title:            "The Leak",
		Slug:             "the-leak",
		NarrativeContext: "A whistleblower has come forward.",
		Status:           entity.ModuleStatusDraft,
		IsFreeDemo:       freeDemo,
		Platform:         entity.PlatformBrowser,
	}
	require.NoError(t, uow.ModuleRepository().Create(ctx, m))

	if doc != "" {
		_, err := f.modules.ImportGraph(ctx, m.Id, []byte(doc))
		require.NoError(t, err)
	}
	return m
}

func (f *fixture) publishedModule(t *testing.T, freeDemo bool) *entity.Module {
	t.Helper()
	m := f.createModule(t, twoStepGraph, freeDemo)
	_, err := f.modules.Publish(context.Background(), m.Id)
	require.NoError(t, err)
	return m
}

func (f *fixture) reload(t *testing.T, sessionId uuid.UUID) *entity.Session {
	t.Helper()
	s, err := loadSession(context.Background(), f.uowFactory.NewUnitOfWork(context.Background()), sessionId)
	require.NoError(t, err)
	return s
}

type capturePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *capturePublisher) Publish(_ context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *capturePublisher) messages(t *testing.T) []map[string]interface{} {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]map[string]interface{}, 0, len(p.payloads))
	for _, raw := range p.payloads {
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &m))
		out = append(out, m)
	}
	return out
}

type captureEvents struct {
	mu        sync.Mutex
	decisions int
	completed []string
	reported  [][]string
}

func (e *captureEvents) PublishDecisionRecorded(context.Context, uuid.UUID, uuid.UUID, int, string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.decisions++
}

func (e *captureEvents) PublishSessionCompleted(_ context.Context, _, _, _ uuid.UUID, path string, _ map[string]interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.completed = append(e.completed, path)
}

func (e *captureEvents) PublishGameEventsReported(_ context.Context, _ uuid.UUID, eventTypes []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reported = append(e.reported, eventTypes)
}
