package controller

import (
	"bytes"
	"encoding/json"

	"simvado-be/internal/dto"
	"simvado-be/internal/pkg/apperr"
	"simvado-be/internal/pkg/serverutils"
	"simvado-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IGameController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	ReportEvents(ctx *fiber.Ctx) error
	ListEvents(ctx *fiber.Ctx) error
	Complete(ctx *fiber.Ctx) error
}

type gameController struct {
	service  service.IGameService
	verifier serverutils.ApiKeyVerifier
}

func NewGameController(service service.IGameService, verifier serverutils.ApiKeyVerifier) IGameController {
	return &gameController{
		service:  service,
		verifier: verifier,
	}
}

func (c *gameController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/game")
	h.Use(serverutils.ApiKeyMiddleware(c.verifier))
	h.Post("/sessions", c.CreateSession)
	h.Get("/sessions/:id", c.GetSession)
	h.Post("/sessions/:id/events", c.ReportEvents)
	h.Get("/sessions/:id/events", c.ListEvents)
	h.Post("/sessions/:id/complete", c.Complete)
}

func (c *gameController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.CreateGameSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateSession(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Game session created", res))
}

func (c *gameController) GetSession(ctx *fiber.Ctx) error {
	sessionId, err := serverutils.ParamUUID(ctx, "id", "Session")
	if err != nil {
		return err
	}

	res, err := c.service.GetSession(ctx.UserContext(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get game session", res))
}

// ReportEvents accepts either one event object or an array of them.
func (c *gameController) ReportEvents(ctx *fiber.Ctx) error {
	sessionId, err := serverutils.ParamUUID(ctx, "id", "Session")
	if err != nil {
		return err
	}

	reqs, err := parseEvents(ctx.Body())
	if err != nil {
		return err
	}
	for i := range reqs {
		if err := serverutils.ValidateRequest(reqs[i]); err != nil {
			return err
		}
	}

	res, err := c.service.ReportEvents(ctx.UserContext(), sessionId, reqs)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Events recorded", res))
}

func parseEvents(body []byte) ([]dto.GameEventRequest, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, apperr.BadRequest("Invalid request body")
	}

	if body[0] == '[' {
		var reqs []dto.GameEventRequest
		if err := json.Unmarshal(body, &reqs); err != nil {
			return nil, apperr.BadRequest("Invalid request body")
		}
		if len(reqs) == 0 {
			return nil, apperr.BadRequest("At least one event is required")
		}
		return reqs, nil
	}

	var req dto.GameEventRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, apperr.BadRequest("Invalid request body")
	}
	return []dto.GameEventRequest{req}, nil
}

func (c *gameController) ListEvents(ctx *fiber.Ctx) error {
	sessionId, err := serverutils.ParamUUID(ctx, "id", "Session")
	if err != nil {
		return err
	}

	res, err := c.service.ListEvents(ctx.UserContext(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get events", res))
}

func (c *gameController) Complete(ctx *fiber.Ctx) error {
	sessionId, err := serverutils.ParamUUID(ctx, "id", "Session")
	if err != nil {
		return err
	}

	var req dto.CompleteGameSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Complete(ctx.UserContext(), sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Game session completed", res))
}
