package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"simvado-be/internal/dto"
	"simvado-be/internal/entity"
	"simvado-be/internal/pkg/apperr"
	"simvado-be/internal/pkg/serverutils"
	"simvado-be/pkg/graph"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "controller-secret"

func token(t *testing.T, userId uuid.UUID, role entity.UserRole) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userId.String(),
		"role":    string(role),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + tok
}

func newApp(controllers ...interface{ RegisterRoutes(fiber.Router) }) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(nil))
	api := app.Group("/api")
	for _, c := range controllers {
		c.RegisterRoutes(api)
	}
	return app
}

func do(t *testing.T, app *fiber.App, method, path, auth, body string) (int, serverutils.BaseResponse[json.RawMessage]) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	defer res.Body.Close()

	var out serverutils.BaseResponse[json.RawMessage]
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return res.StatusCode, out
}

type stubSessions struct {
	startedBy uuid.UUID
	start     *dto.StartSessionRequest
	err       error
}

func (s *stubSessions) Start(_ context.Context, userId uuid.UUID, req *dto.StartSessionRequest) (*dto.StartSessionResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.startedBy, s.start = userId, req
	return &dto.StartSessionResponse{SessionId: uuid.New()}, nil
}

func (s *stubSessions) CurrentNode(context.Context, uuid.UUID, uuid.UUID) (*dto.CurrentNodeResponse, error) {
	return nil, apperr.NotFound("Session not found")
}

func (s *stubSessions) Results(context.Context, uuid.UUID, uuid.UUID) (*dto.SessionResultsResponse, error) {
	return &dto.SessionResultsResponse{}, nil
}

func (s *stubSessions) Debrief(context.Context, uuid.UUID, uuid.UUID) (*dto.DebriefResponse, error) {
	return &dto.DebriefResponse{}, nil
}

func (s *stubSessions) Analytics(context.Context, uuid.UUID, uuid.UUID) (*dto.AnalyticsResponse, error) {
	return &dto.AnalyticsResponse{}, nil
}

type stubDecisions struct {
	req *dto.SubmitDecisionRequest
}

func (s *stubDecisions) Submit(_ context.Context, _, _ uuid.UUID, req *dto.SubmitDecisionRequest) (*dto.SubmitDecisionResponse, error) {
	s.req = req
	return &dto.SubmitDecisionResponse{IsComplete: true}, nil
}

func TestSessionController(t *testing.T) {
	sessions := &stubSessions{}
	decisions := &stubDecisions{}
	app := newApp(NewSessionController(sessions, decisions, testSecret))
	userId := uuid.New()
	auth := token(t, userId, entity.UserRoleUser)
	moduleId := uuid.New()

	status, _ := do(t, app, "POST", "/api/sessions", "", `{"moduleId":"`+moduleId.String()+`"}`)
	assert.Equal(t, 401, status)

	status, body := do(t, app, "POST", "/api/sessions", auth, `{"moduleId":"`+moduleId.String()+`"}`)
	require.Equal(t, 201, status)
	assert.True(t, body.Success)
	assert.Equal(t, userId, sessions.startedBy)
	assert.Equal(t, moduleId, sessions.start.ModuleId)

	status, _ = do(t, app, "POST", "/api/sessions", auth, `{}`)
	assert.Equal(t, 400, status, "moduleId is required")

	status, _ = do(t, app, "POST", "/api/sessions", auth, `{"moduleId":`)
	assert.Equal(t, 400, status)

	status, body = do(t, app, "GET", "/api/sessions/"+uuid.NewString()+"/node", auth, "")
	assert.Equal(t, 404, status)
	assert.Equal(t, "Session not found", body.Message)

	status, _ = do(t, app, "GET", "/api/sessions/not-a-uuid/results", auth, "")
	assert.Equal(t, 404, status)

	optionId := uuid.New()
	status, body = do(t, app, "POST", "/api/sessions/"+uuid.NewString()+"/decide", auth,
		`{"optionId":"`+optionId.String()+`","timeSpentSeconds":12}`)
	require.Equal(t, 200, status)
	assert.JSONEq(t, `{"consequenceVideoUrl":null,"aiDialogue":null,"runningScores":{"financial":0,"reputational":0,"ethical":0,"stakeholder_confidence":0,"long_term_stability":0},"nextNodeKey":null,"isComplete":true}`, string(body.Data))
	assert.Equal(t, optionId, decisions.req.OptionId)
	assert.Equal(t, 12, *decisions.req.TimeSpentSeconds)

	status, _ = do(t, app, "POST", "/api/sessions/"+uuid.NewString()+"/decide", auth, `{"optionId":"`+optionId.String()+`","timeSpentSeconds":-1}`)
	assert.Equal(t, 400, status)
}

type stubVerifier struct{}

func (stubVerifier) VerifyKey(_ context.Context, plaintext string) (*entity.ApiKey, error) {
	if plaintext == "good-key" {
		return &entity.ApiKey{Id: uuid.New(), Name: "studio"}, nil
	}
	return nil, nil
}

type stubGame struct {
	events   []dto.GameEventRequest
	complete *dto.CompleteGameSessionRequest
}

func (s *stubGame) CreateSession(_ context.Context, req *dto.CreateGameSessionRequest) (*dto.CreateGameSessionResponse, error) {
	return &dto.CreateGameSessionResponse{SessionId: uuid.New(), ExternalSessionId: req.ExternalSessionId}, nil
}

func (s *stubGame) ReportEvents(_ context.Context, _ uuid.UUID, reqs []dto.GameEventRequest) (*dto.ReportEventsResponse, error) {
	s.events = reqs
	ids := make([]uuid.UUID, len(reqs))
	for i := range ids {
		ids[i] = uuid.New()
	}
	return &dto.ReportEventsResponse{EventIds: ids}, nil
}

func (s *stubGame) ListEvents(context.Context, uuid.UUID) ([]dto.GameEventResponse, error) {
	return []dto.GameEventResponse{}, nil
}

func (s *stubGame) GetSession(context.Context, uuid.UUID) (*dto.GameSessionResponse, error) {
	return nil, apperr.NotFound("Session not found")
}

func (s *stubGame) Complete(_ context.Context, _ uuid.UUID, req *dto.CompleteGameSessionRequest) (*dto.CompleteGameSessionResponse, error) {
	s.complete = req
	return &dto.CompleteGameSessionResponse{Status: "completed", DebriefGenerated: true}, nil
}

func TestGameController(t *testing.T) {
	game := &stubGame{}
	app := newApp(NewGameController(game, stubVerifier{}))
	auth := "Bearer good-key"
	events := "/api/game/sessions/" + uuid.NewString() + "/events"

	status, _ := do(t, app, "GET", events, "", "")
	assert.Equal(t, 401, status)
	status, _ = do(t, app, "GET", events, "Bearer wrong", "")
	assert.Equal(t, 401, status)

	status, body := do(t, app, "POST", "/api/game/sessions", auth,
		`{"userId":"`+uuid.NewString()+`","moduleId":"`+uuid.NewString()+`","externalSessionId":"ue-7","platform":"unreal"}`)
	require.Equal(t, 201, status)
	assert.Contains(t, string(body.Data), `"externalSessionId":"ue-7"`)

	status, _ = do(t, app, "POST", "/api/game/sessions", auth,
		`{"userId":"`+uuid.NewString()+`","moduleId":"`+uuid.NewString()+`","platform":"xbox"}`)
	assert.Equal(t, 400, status)

	status, _ = do(t, app, "POST", events, auth, `{"eventType":"decision","eventData":{"choice":"a"}}`)
	require.Equal(t, 201, status)
	require.Len(t, game.events, 1)
	assert.Equal(t, "a", game.events[0].EventData["choice"])

	status, body = do(t, app, "POST", events, auth, ` [{"eventType":"scene_start"},{"eventType":"decision"}]`)
	require.Equal(t, 201, status)
	assert.Len(t, game.events, 2)
	var ids dto.ReportEventsResponse
	require.NoError(t, json.Unmarshal(body.Data, &ids))
	assert.Len(t, ids.EventIds, 2)

	tests := map[string]string{
		"empty array":  `[]`,
		"missing type": `[{"eventType":"decision"},{"eventData":{}}]`,
		"malformed":    `{"eventType":`,
		"empty body":   ``,
		"wrong shape":  `"decision"`,
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			status, _ := do(t, app, "POST", events, auth, payload)
			assert.Equal(t, 400, status)
		})
	}

	status, _ = do(t, app, "GET", "/api/game/sessions/"+uuid.NewString(), auth, "")
	assert.Equal(t, 404, status)

	status, _ = do(t, app, "POST", "/api/game/sessions/"+uuid.NewString()+"/complete", auth, `{}`)
	assert.Equal(t, 400, status, "finalScores is required")

	status, body = do(t, app, "POST", "/api/game/sessions/"+uuid.NewString()+"/complete", auth,
		`{"finalScores":{"ethical":80},"totalDurationSeconds":600,"summary":"Held the line."}`)
	require.Equal(t, 200, status)
	assert.JSONEq(t, `{"status":"completed","debriefGenerated":true}`, string(body.Data))
	assert.Equal(t, "Held the line.", *game.complete.Summary)
}

type stubModules struct {
	imported []byte
	publish  error
}

func (s *stubModules) ImportGraph(_ context.Context, moduleId uuid.UUID, document []byte) (*dto.ImportGraphResponse, error) {
	s.imported = document
	return &dto.ImportGraphResponse{ModuleId: moduleId, NodeCount: 2}, nil
}

func (s *stubModules) Publish(_ context.Context, moduleId uuid.UUID) (*dto.PublishModuleResponse, error) {
	if s.publish != nil {
		return nil, s.publish
	}
	return &dto.PublishModuleResponse{ModuleId: moduleId, Status: "published"}, nil
}

func (s *stubModules) ExportDOT(context.Context, uuid.UUID) (string, error) {
	return "digraph module {\n}\n", nil
}

type stubApiKeys struct {
	revoked uuid.UUID
}

func (s *stubApiKeys) IssueKey(_ context.Context, req *dto.IssueApiKeyRequest) (*dto.IssueApiKeyResponse, error) {
	return &dto.IssueApiKeyResponse{Id: uuid.New(), Key: "smv_secret", KeyPrefix: "smv_secr"}, nil
}

func (s *stubApiKeys) VerifyKey(context.Context, string) (*entity.ApiKey, error) {
	return nil, nil
}

func (s *stubApiKeys) RevokeKey(_ context.Context, id uuid.UUID) error {
	s.revoked = id
	return nil
}

func TestModuleController_Roles(t *testing.T) {
	app := newApp(NewModuleController(&stubModules{}, &stubApiKeys{}, testSecret))
	moduleId := uuid.NewString()

	player := token(t, uuid.New(), entity.UserRoleUser)
	studio := token(t, uuid.New(), entity.UserRoleStudio)
	admin := token(t, uuid.New(), entity.UserRolePlatformAdmin)

	status, _ := do(t, app, "POST", "/api/modules/"+moduleId+"/publish", player, "")
	assert.Equal(t, 403, status)
	status, _ = do(t, app, "POST", "/api/modules/"+moduleId+"/publish", studio, "")
	assert.Equal(t, 200, status)

	status, _ = do(t, app, "POST", "/api/api-keys", studio, `{"name":"unreal build"}`)
	assert.Equal(t, 403, status)
	status, body := do(t, app, "POST", "/api/api-keys", admin, `{"name":"unreal build"}`)
	require.Equal(t, 201, status)
	assert.Contains(t, string(body.Data), `"key":"smv_secret"`)
	status, _ = do(t, app, "POST", "/api/api-keys", admin, `{}`)
	assert.Equal(t, 400, status)
}

func TestModuleController_Graph(t *testing.T) {
	modules := &stubModules{}
	keys := &stubApiKeys{}
	app := newApp(NewModuleController(modules, keys, testSecret))
	studio := token(t, uuid.New(), entity.UserRoleStudio)
	moduleId := uuid.NewString()

	doc := "nodes:\n  - key: intro\n"
	req := httptest.NewRequest("PUT", "/api/modules/"+moduleId+"/graph", strings.NewReader(doc))
	req.Header.Set("Content-Type", "application/yaml")
	req.Header.Set("Authorization", studio)
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, doc, string(modules.imported))

	status, _ := do(t, app, "PUT", "/api/modules/"+moduleId+"/graph", studio, "")
	assert.Equal(t, 400, status)

	modules.publish = apperr.BadRequest("Graph validation failed").Wrap(&graph.ValidationError{
		Problems: []string{`node "intro" is unreachable from entry "start"`},
	})
	status, body := do(t, app, "POST", "/api/modules/"+moduleId+"/publish", studio, "")
	require.Equal(t, 400, status)
	assert.False(t, body.Success)
	var problems dto.GraphProblemsResponse
	require.NoError(t, json.Unmarshal(body.Data, &problems))
	assert.Equal(t, []string{`node "intro" is unreachable from entry "start"`}, problems.Problems)

	req = httptest.NewRequest("GET", "/api/modules/"+moduleId+"/graph.dot", nil)
	req.Header.Set("Authorization", studio)
	res, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/vnd.graphviz")
	raw, _ := io.ReadAll(res.Body)
	assert.Contains(t, string(raw), "digraph")

	admin := token(t, uuid.New(), entity.UserRolePlatformAdmin)
	keyId := uuid.New()
	status, _ = do(t, app, "DELETE", "/api/api-keys/"+keyId.String(), admin, "")
	assert.Equal(t, 200, status)
	assert.Equal(t, keyId, keys.revoked)
}
