package serverutils

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"simvado-be/internal/entity"
	"simvado-be/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(nil))
	return app
}

func decode(t *testing.T, body io.Reader) BaseResponse[json.RawMessage] {
	t.Helper()
	var out BaseResponse[json.RawMessage]
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestJwtMiddleware(t *testing.T) {
	userId := uuid.New()
	app := newApp()
	app.Get("/me", JwtMiddleware(testSecret), func(ctx *fiber.Ctx) error {
		id, err := UserID(ctx)
		if err != nil {
			return err
		}
		return ctx.JSON(SuccessResponse("ok", id.String()))
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", 401},
		{"not bearer", "Basic abc", 401},
		{"wrong secret", "Bearer " + signToken(t, jwt.MapClaims{"user_id": userId.String()}, "other"), 401},
		{"expired", "Bearer " + signToken(t, jwt.MapClaims{"user_id": userId.String(), "exp": time.Now().Add(-time.Minute).Unix()}, testSecret), 401},
		{"bad user id", "Bearer " + signToken(t, jwt.MapClaims{"user_id": "nope"}, testSecret), 401},
		{"valid", "Bearer " + signToken(t, jwt.MapClaims{"user_id": userId.String()}, testSecret), 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body := decode(t, resp.Body)
			assert.Equal(t, tt.status == 200, body.Success)
			if tt.status == 200 {
				assert.JSONEq(t, `"`+userId.String()+`"`, string(body.Data))
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	app := newApp()
	app.Get("/studio", JwtMiddleware(testSecret), RequireRoles("studio", "platform_admin"), func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(204)
	})

	for role, status := range map[string]int{"studio": 204, "platform_admin": 204, "user": 403, "": 403} {
		req := httptest.NewRequest("GET", "/studio", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{"user_id": uuid.NewString(), "role": role}, testSecret))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equalf(t, status, resp.StatusCode, "role=%q", role)
	}
}

type stubVerifier struct {
	keys map[string]*entity.ApiKey
	err  error
}

func (s stubVerifier) VerifyKey(_ context.Context, plaintext string) (*entity.ApiKey, error) {
	return s.keys[plaintext], s.err
}

func TestApiKeyMiddleware(t *testing.T) {
	key := &entity.ApiKey{Id: uuid.New(), IsActive: true}
	app := newApp()
	app.Get("/game", ApiKeyMiddleware(stubVerifier{keys: map[string]*entity.ApiKey{"sk_sim_good": key}}), func(ctx *fiber.Ctx) error {
		got := ctx.Locals(LocalApiKey).(*entity.ApiKey)
		return ctx.JSON(SuccessResponse("ok", got.Id))
	})

	for header, status := range map[string]int{"": 401, "Bearer sk_sim_bad": 401, "Bearer sk_sim_good": 200} {
		req := httptest.NewRequest("GET", "/game", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equalf(t, status, resp.StatusCode, "header=%q", header)
	}
}

func TestErrorHandlerMapping(t *testing.T) {
	type body struct {
		OptionId string `validate:"required,uuid"`
	}

	app := newApp()
	app.Get("/apperr", func(ctx *fiber.Ctx) error { return apperr.BadRequest("no more decisions") })
	app.Get("/fiber", func(ctx *fiber.Ctx) error { return fiber.NewError(fiber.StatusUnprocessableEntity, "bad body") })
	app.Get("/validation", func(ctx *fiber.Ctx) error { return ValidateRequest(body{OptionId: "x"}) })
	app.Get("/unknown", func(ctx *fiber.Ctx) error { return errors.New("pq: connection refused") })

	tests := []struct {
		path    string
		status  int
		message string
	}{
		{"/apperr", 400, "no more decisions"},
		{"/fiber", 422, "bad body"},
		{"/validation", 400, "Validation failed"},
		{"/unknown", 500, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			out := decode(t, resp.Body)
			assert.False(t, out.Success)
			assert.Equal(t, tt.status, out.Code)
			assert.Equal(t, tt.message, out.Message)
			if tt.path == "/validation" {
				assert.JSONEq(t, `{"optionId":"optionId must be a valid UUID"}`, string(out.Data))
			}
		})
	}
}
