package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"simvado-be/internal/dto"
	"simvado-be/internal/entity"
	"simvado-be/internal/pkg/apperr"
	"simvado-be/internal/repository/specification"
	"simvado-be/pkg/debrief"
	"simvado-be/pkg/metrics"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func optionByKey(t *testing.T, node *dto.CurrentNodeResponse, key string) uuid.UUID {
	t.Helper()
	for _, o := range node.Options {
		if o.Key == key {
			return o.Id
		}
	}
	t.Fatalf("option %q not on node %q", key, node.NodeKey)
	return uuid.Nil
}

func startSession(t *testing.T, f *fixture, user *entity.User, module *entity.Module) uuid.UUID {
	t.Helper()
	res, err := f.sessionService().Start(context.Background(), user.Id, &dto.StartSessionRequest{ModuleId: module.Id})
	require.NoError(t, err)
	return res.SessionId
}

func TestDecision_FullTraversal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, entity.SubscriptionTierProMonthly, nil)
	module := f.publishedModule(t, false)
	sessions := f.sessionService()
	decisions := f.decisionService()

	sessionId := startSession(t, f, user, module)

	node, err := sessions.CurrentNode(ctx, user.Id, sessionId)
	require.NoError(t, err)
	assert.Equal(t, "intro", node.NodeKey)
	assert.Equal(t, "The regulator is on the line.", node.PromptText)
	require.NotNil(t, node.TimerSeconds)
	assert.Equal(t, 60, *node.TimerSeconds)
	require.Len(t, node.ContextDocuments, 1)
	require.Len(t, node.Options, 2)
	assert.Equal(t, "disclose", node.Options[0].Key)

	res, err := decisions.Submit(ctx, user.Id, sessionId, &dto.SubmitDecisionRequest{
		OptionId:         optionByKey(t, node, "disclose"),
		TimeSpentSeconds: intPtr(12),
	})
	require.NoError(t, err)
	assert.False(t, res.IsComplete)
	require.NotNil(t, res.NextNodeKey)
	assert.Equal(t, "wrapup", *res.NextNodeKey)
	assert.Equal(t, 60, res.RunningScores.Ethical)
	require.NotNil(t, res.AiDialogue)
	assert.Equal(t, "Counsel nods slowly.", *res.AiDialogue)

	node, err = sessions.CurrentNode(ctx, user.Id, sessionId)
	require.NoError(t, err)
	assert.Equal(t, "wrapup", node.NodeKey)
	assert.Empty(t, node.ContextDocuments)

	res, err = decisions.Submit(ctx, user.Id, sessionId, &dto.SubmitDecisionRequest{
		OptionId:         optionByKey(t, node, "own_it"),
		TimeSpentSeconds: intPtr(8),
	})
	require.NoError(t, err)
	assert.True(t, res.IsComplete)
	assert.Nil(t, res.NextNodeKey)
	assert.Nil(t, res.AiDialogue, "node without a template gets no reaction")
	require.NotNil(t, res.ConsequenceVideoUrl)
	assert.Equal(t, 70, res.RunningScores.Ethical)

	session := f.reload(t, sessionId)
	assert.Equal(t, entity.SessionStatusCompleted, session.Status)
	require.NotNil(t, session.TotalDurationSeconds)
	assert.Equal(t, 20, *session.TotalDurationSeconds)
	assert.Equal(t, 55, session.FinalScores["total"])
	assert.Equal(t, "C", session.FinalScores["grade"])
	assert.Equal(t, 70, session.FinalScores["ethical"])
	require.NotNil(t, session.DebriefText)
	assert.Equal(t, "You led with integrity.", *session.DebriefText)

	_, err = sessions.CurrentNode(ctx, user.Id, sessionId)
	assert.True(t, apperr.IsBadRequest(err))

	results, err := sessions.Results(ctx, user.Id, sessionId)
	require.NoError(t, err)
	require.Len(t, results.Decisions, 2)
	assert.Equal(t, 1, results.Decisions[0].Sequence)
	assert.Equal(t, "intro", results.Decisions[0].NodeKey)
	assert.Equal(t, "own_it", results.Decisions[1].OptionKey)
	assert.Equal(t, 70, results.Decisions[1].Scores.Ethical)

	assert.Equal(t, 2, f.events.decisions)
	assert.Equal(t, []string{metrics.PathPlayer}, f.events.completed)
	msgs := f.bus.messages(t)
	require.Len(t, msgs, 1)
	assert.Equal(t, sessionId.String(), msgs[0]["session_id"])
	assert.EqualValues(t, 55, msgs[0]["total"])
}

func TestDecision_OptionFromAnotherNode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, entity.SubscriptionTierProMonthly, nil)
	module := f.publishedModule(t, false)
	sessionId := startSession(t, f, user, module)

	g, err := f.graphs.Load(ctx, module.Id)
	require.NoError(t, err)
	wrapup := g.Node("wrapup")
	require.NotNil(t, wrapup)

	_, err = f.decisionService().Submit(ctx, user.Id, sessionId, &dto.SubmitDecisionRequest{OptionId: wrapup.Options[0].Id})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
	assert.Equal(t, 0, f.reload(t, sessionId).DecisionCount)
}

func TestDecision_UnknownOptionAndForeignSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, entity.SubscriptionTierProMonthly, nil)
	other := f.createUser(t, entity.SubscriptionTierProMonthly, nil)
	module := f.publishedModule(t, false)
	sessionId := startSession(t, f, user, module)

	_, err := f.decisionService().Submit(ctx, user.Id, sessionId, &dto.SubmitDecisionRequest{OptionId: uuid.New()})
	assert.True(t, apperr.IsNotFound(err))

	node, err := f.sessionService().CurrentNode(ctx, user.Id, sessionId)
	require.NoError(t, err)
	_, err = f.decisionService().Submit(ctx, other.Id, sessionId, &dto.SubmitDecisionRequest{OptionId: node.Options[0].Id})
	assert.True(t, apperr.IsNotFound(err))

	_, err = f.sessionService().CurrentNode(ctx, other.Id, sessionId)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDecision_CompletedSessionRejectsDecisions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, entity.SubscriptionTierProMonthly, nil)
	module := f.publishedModule(t, false)
	sessionId := startSession(t, f, user, module)
	decisions := f.decisionService()

	node, err := f.sessionService().CurrentNode(ctx, user.Id, sessionId)
	require.NoError(t, err)
	_, err = decisions.Submit(ctx, user.Id, sessionId, &dto.SubmitDecisionRequest{OptionId: optionByKey(t, node, "delay")})
	require.NoError(t, err)
	node, err = f.sessionService().CurrentNode(ctx, user.Id, sessionId)
	require.NoError(t, err)
	last := optionByKey(t, node, "deflect")
	_, err = decisions.Submit(ctx, user.Id, sessionId, &dto.SubmitDecisionRequest{OptionId: last})
	require.NoError(t, err)

	_, err = decisions.Submit(ctx, user.Id, sessionId, &dto.SubmitDecisionRequest{OptionId: last})
	assert.True(t, apperr.IsNotFound(err))

	session := f.reload(t, sessionId)
	assert.Equal(t, 2, session.DecisionCount)
	// 55*.2 + 30*.2 + 40*.25 + 50*.2 + 50*.15 = 44.5 -> 45
	assert.Equal(t, 45, session.FinalScores["total"])
	assert.Equal(t, "D", session.FinalScores["grade"])
}

func TestDecision_AIFailuresFallBack(t *testing.T) {
	f := newFixture(t)
	f.reaction.Err = errors.New("rate limited")
	f.debrief.Err = errors.New("upstream down")
	ctx := context.Background()
	user := f.createUser(t, entity.SubscriptionTierProMonthly, nil)
	module := f.publishedModule(t, false)
	sessionId := startSession(t, f, user, module)
	decisions := f.decisionService()

	node, err := f.sessionService().CurrentNode(ctx, user.Id, sessionId)
	require.NoError(t, err)
	res, err := decisions.Submit(ctx, user.Id, sessionId, &dto.SubmitDecisionRequest{OptionId: optionByKey(t, node, "disclose")})
	require.NoError(t, err)
	assert.Nil(t, res.AiDialogue)

	node, err = f.sessionService().CurrentNode(ctx, user.Id, sessionId)
	require.NoError(t, err)
	res, err = decisions.Submit(ctx, user.Id, sessionId, &dto.SubmitDecisionRequest{OptionId: optionByKey(t, node, "own_it")})
	require.NoError(t, err)
	assert.True(t, res.IsComplete)

	session := f.reload(t, sessionId)
	require.NotNil(t, session.DebriefText)
	assert.Equal(t, debrief.Placeholder, *session.DebriefText)
}

func TestDecision_CompletionFlipsAssignments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orgId := uuid.New()
	user := f.createUser(t, entity.SubscriptionTierEnterprise, &orgId)
	module := f.publishedModule(t, false)

	uow := f.uowFactory.NewUnitOfWork(ctx)
	outstanding := &entity.Assignment{
		Id: uuid.New(), OrganizationId: orgId, ModuleId: module.Id, AssignedToUserId: user.Id,
		Status: entity.AssignmentStatusAssigned,
	}
	otherModule := &entity.Assignment{
		Id: uuid.New(), OrganizationId: orgId, ModuleId: uuid.New(), AssignedToUserId: user.Id,
		Status: entity.AssignmentStatusAssigned,
	}
	require.NoError(t, uow.AssignmentRepository().Create(ctx, outstanding))
	require.NoError(t, uow.AssignmentRepository().Create(ctx, otherModule))

	sessionId := startSession(t, f, user, module)
	decisions := f.decisionService()
	for _, key := range []string{"disclose", "own_it"} {
		node, err := f.sessionService().CurrentNode(ctx, user.Id, sessionId)
		require.NoError(t, err)
		_, err = decisions.Submit(ctx, user.Id, sessionId, &dto.SubmitDecisionRequest{OptionId: optionByKey(t, node, key)})
		require.NoError(t, err)
	}

	rows, err := uow.AssignmentRepository().FindAll(ctx, specification.ByIDs{IDs: []uuid.UUID{outstanding.Id, otherModule.Id}})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, a := range rows {
		if a.Id == outstanding.Id {
			assert.Equal(t, entity.AssignmentStatusCompleted, a.Status)
			assert.NotNil(t, a.CompletedAt)
		} else {
			assert.Equal(t, entity.AssignmentStatusAssigned, a.Status)
		}
	}

	msgs := f.bus.messages(t)
	require.Len(t, msgs, 1)
	assert.Equal(t, []interface{}{outstanding.Id.String()}, msgs[0]["assignment_ids"])
}

func TestDecision_ConcurrentSubmitsAreSerialized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, entity.SubscriptionTierProMonthly, nil)
	module := f.publishedModule(t, false)
	sessionId := startSession(t, f, user, module)
	decisions := f.decisionService()

	node, err := f.sessionService().CurrentNode(ctx, user.Id, sessionId)
	require.NoError(t, err)
	optionId := optionByKey(t, node, "disclose")

	const n = 5
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = decisions.Submit(ctx, user.Id, sessionId, &dto.SubmitDecisionRequest{OptionId: optionId})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, apperr.IsBadRequest(err), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, ok)

	session := f.reload(t, sessionId)
	assert.Equal(t, 1, session.DecisionCount)
	require.NotNil(t, session.CurrentNodeKey)
	assert.Equal(t, "wrapup", *session.CurrentNodeKey)
}

func TestDecision_LockTimeoutIsConflict(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, entity.SubscriptionTierProMonthly, nil)
	module := f.publishedModule(t, false)
	sessionId := startSession(t, f, user, module)

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = f.locker.WithLock(context.Background(), sessionId.String(), func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := f.decisionService().Submit(ctx, user.Id, sessionId, &dto.SubmitDecisionRequest{OptionId: uuid.New()})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err), "got %v", err)
}
