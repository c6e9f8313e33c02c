package unitofwork_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"simvado-be/internal/entity"
	"simvado-be/internal/model"
	"simvado-be/internal/repository/specification"
	"simvado-be/internal/repository/unitofwork"
	"simvado-be/pkg/database"
	"simvado-be/pkg/scoring"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestPostgres runs against a real database and skips without one.
func TestPostgres(t *testing.T) {
	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error)
	require.NoError(t, db.AutoMigrate(model.All()...))

	ctx := context.Background()
	factory := unitofwork.NewRepositoryFactory(db)
	uow := factory.NewUnitOfWork(ctx)

	user := &entity.User{
		Id:               uuid.New(),
		ExternalId:       "it-" + uuid.NewString(),
		Email:            "it-" + uuid.NewString() + "@example.com",
		Name:             "Integration Player",
		Role:             entity.UserRoleUser,
		SubscriptionTier: entity.SubscriptionTierProMonthly,
	}
	require.NoError(t, uow.UserRepository().Create(ctx, user))

	sim := &entity.Simulation{Id: uuid.New(), Title: "Integration", Slug: "it-" + uuid.NewString()[:8]}
	require.NoError(t, uow.SimulationRepository().Create(ctx, sim))
	module := &entity.Module{
		Id:           uuid.New(),
		SimulationId: sim.Id,
		Title:        "Integration Module",
		Slug:         "it-module",
		Status:       entity.ModuleStatusDraft,
		Platform:     entity.PlatformBrowser,
	}
	require.NoError(t, uow.ModuleRepository().Create(ctx, module))

	node := &entity.DecisionNode{
		Id:         uuid.New(),
		ModuleId:   module.Id,
		NodeKey:    "intro",
		PromptText: "Integration prompt",
		Options: []*entity.NodeOption{
			{Id: uuid.New(), OptionKey: "only", Label: "Only", ScoreImpacts: scoring.Delta{Ethical: 5}},
		},
	}
	require.NoError(t, uow.DecisionNodeRepository().Create(ctx, node))

	session := &entity.Session{
		Id:        uuid.New(),
		UserId:    user.Id,
		ModuleId:  module.Id,
		Status:    entity.SessionStatusNotStarted,
		Platform:  entity.PlatformBrowser,
		StartedAt: time.Now(),
	}
	require.NoError(t, uow.SessionRepository().Create(ctx, session))

	t.Run("decision sequence is unique", func(t *testing.T) {
		decision := func() *entity.SessionDecision {
			return &entity.SessionDecision{
				Id:               uuid.New(),
				SessionId:        session.Id,
				Sequence:         1,
				DecisionNodeId:   node.Id,
				SelectedOptionId: node.Options[0].Id,
				ScoreSnapshot:    scoring.Initial(),
				DecidedAt:        time.Now(),
			}
		}
		require.NoError(t, uow.SessionDecisionRepository().Create(ctx, decision()))
		err := uow.SessionDecisionRepository().Create(ctx, decision())
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	})

	t.Run("finalize wins once", func(t *testing.T) {
		fin := entity.Finalization{CompletedAt: time.Now(), FinalScores: map[string]interface{}{"total": 51}, DecisionCount: 1}
		won, err := uow.SessionRepository().Finalize(ctx, session.Id, fin)
		require.NoError(t, err)
		assert.True(t, won)

		won, err = uow.SessionRepository().Finalize(ctx, session.Id, fin)
		require.NoError(t, err)
		assert.False(t, won)

		stored, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: session.Id})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, entity.SessionStatusCompleted, stored.Status)
	})
}
