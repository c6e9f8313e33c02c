package service

import (
	"context"
	"encoding/json"

	"simvado-be/internal/dto"
	"simvado-be/internal/entity"
	"simvado-be/internal/pkg/logger"
	"simvado-be/internal/repository/unitofwork"
	"simvado-be/pkg/events"
	"simvado-be/pkg/metrics"
	"simvado-be/pkg/scoring"

	"github.com/google/uuid"
)

// finalizeInTx completes the session and its outstanding assignments. It
// must run inside the caller's transaction. ok is false when the session
// was already completed by another writer.
func finalizeInTx(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.Session, fin entity.Finalization) (flipped []*entity.Assignment, ok bool, err error) {
	ok, err = uow.SessionRepository().Finalize(ctx, session.Id, fin)
	if err != nil || !ok {
		return nil, ok, err
	}

	flipped, err = uow.AssignmentRepository().CompleteOutstanding(ctx, session.UserId, session.ModuleId, fin.CompletedAt)
	if err != nil {
		return nil, false, err
	}
	return flipped, true, nil
}

// completionNotifier fans a committed completion out to metrics, NATS and
// the in-process bus. Every step is best effort.
type completionNotifier struct {
	publisher IPublisherService
	events    events.Publisher
	metrics   *metrics.Recorder
	logger    logger.ILogger
}

func newCompletionNotifier(publisher IPublisherService, ev events.Publisher, rec *metrics.Recorder, log logger.ILogger) *completionNotifier {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &completionNotifier{
		publisher: publisher,
		events:    ev,
		metrics:   rec,
		logger:    log,
	}
}

func (n *completionNotifier) SessionCompleted(ctx context.Context, session *entity.Session, path string, finalScores map[string]interface{}, flipped []*entity.Assignment) {
	total, grade := totalAndGrade(finalScores)
	n.metrics.SessionCompleted(path, gradeLabel(grade))

	if n.events != nil {
		n.events.PublishSessionCompleted(ctx, session.Id, session.UserId, session.ModuleId, path, finalScores)
	}

	if n.publisher == nil {
		return
	}
	ids := make([]uuid.UUID, len(flipped))
	for i, a := range flipped {
		ids[i] = a.Id
	}
	payload, err := json.Marshal(dto.SessionCompletedMessage{
		SessionId:   session.Id,
		UserId:      session.UserId,
		ModuleId:    session.ModuleId,
		Path:        path,
		Total:       total,
		Grade:       grade,
		Assignments: ids,
	})
	if err != nil {
		return
	}
	if err := n.publisher.Publish(ctx, payload); err != nil {
		n.logger.Warn("SESSION", "Failed to publish session completion", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
	}
}

// totalAndGrade reads total and grade from a final score snapshot. Game
// engines may send snapshots without them.
func totalAndGrade(scores map[string]interface{}) (*int, string) {
	var total *int
	switch v := scores["total"].(type) {
	case int:
		total = &v
	case float64:
		t := int(v)
		total = &t
	case json.Number:
		if i, err := v.Int64(); err == nil {
			t := int(i)
			total = &t
		} else if f, err := v.Float64(); err == nil {
			t := int(f)
			total = &t
		}
	}
	grade, _ := scores["grade"].(string)
	return total, grade
}

// gradeLabel bounds the metric label set when grades come from a game engine.
func gradeLabel(grade string) string {
	switch {
	case grade == "":
		return "none"
	case scoring.IsGrade(grade):
		return grade
	default:
		return "other"
	}
}
