package controller

import (
	"simvado-be/internal/dto"
	"simvado-be/internal/pkg/apperr"
	"simvado-be/internal/pkg/serverutils"
	"simvado-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	CurrentNode(ctx *fiber.Ctx) error
	Decide(ctx *fiber.Ctx) error
	Results(ctx *fiber.Ctx) error
	Debrief(ctx *fiber.Ctx) error
	Analytics(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessions  service.ISessionService
	decisions service.IDecisionService
	jwtSecret string
}

func NewSessionController(sessions service.ISessionService, decisions service.IDecisionService, jwtSecret string) ISessionController {
	return &sessionController{
		sessions:  sessions,
		decisions: decisions,
		jwtSecret: jwtSecret,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sessions")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret))
	h.Post("", c.Start)
	h.Get(":id/node", c.CurrentNode)
	h.Post(":id/decide", c.Decide)
	h.Get(":id/results", c.Results)
	h.Get(":id/debrief", c.Debrief)
	h.Get(":id/analytics", c.Analytics)
}

func (c *sessionController) Start(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.StartSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessions.Start(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Session started", res))
}

func (c *sessionController) CurrentNode(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	sessionId, err := serverutils.ParamUUID(ctx, "id", "Session")
	if err != nil {
		return err
	}

	res, err := c.sessions.CurrentNode(ctx.UserContext(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get current node", res))
}

func (c *sessionController) Decide(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	sessionId, err := serverutils.ParamUUID(ctx, "id", "Session")
	if err != nil {
		return err
	}

	var req dto.SubmitDecisionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.decisions.Submit(ctx.UserContext(), userId, sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Decision recorded", res))
}

func (c *sessionController) Results(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	sessionId, err := serverutils.ParamUUID(ctx, "id", "Session")
	if err != nil {
		return err
	}

	res, err := c.sessions.Results(ctx.UserContext(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get results", res))
}

func (c *sessionController) Debrief(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	sessionId, err := serverutils.ParamUUID(ctx, "id", "Session")
	if err != nil {
		return err
	}

	res, err := c.sessions.Debrief(ctx.UserContext(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get debrief", res))
}

func (c *sessionController) Analytics(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	sessionId, err := serverutils.ParamUUID(ctx, "id", "Session")
	if err != nil {
		return err
	}

	res, err := c.sessions.Analytics(ctx.UserContext(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get analytics", res))
}
