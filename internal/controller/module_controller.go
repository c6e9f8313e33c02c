package controller

import (
	"simvado-be/internal/dto"
	"simvado-be/internal/entity"
	"simvado-be/internal/pkg/apperr"
	"simvado-be/internal/pkg/serverutils"
	"simvado-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IModuleController interface {
	RegisterRoutes(r fiber.Router)
	ImportGraph(ctx *fiber.Ctx) error
	Publish(ctx *fiber.Ctx) error
	ExportDOT(ctx *fiber.Ctx) error
	IssueApiKey(ctx *fiber.Ctx) error
	RevokeApiKey(ctx *fiber.Ctx) error
}

type moduleController struct {
	modules   service.IModuleService
	apiKeys   service.IApiKeyService
	jwtSecret string
}

func NewModuleController(modules service.IModuleService, apiKeys service.IApiKeyService, jwtSecret string) IModuleController {
	return &moduleController{
		modules:   modules,
		apiKeys:   apiKeys,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes mounts the studio tooling. Authoring is open to studios,
// key management to platform admins only.
func (c *moduleController) RegisterRoutes(r fiber.Router) {
	author := serverutils.RequireRoles(string(entity.UserRoleStudio), string(entity.UserRolePlatformAdmin))

	m := r.Group("/modules")
	m.Use(serverutils.JwtMiddleware(c.jwtSecret), author)
	m.Put(":id/graph", c.ImportGraph)
	m.Post(":id/publish", c.Publish)
	m.Get(":id/graph.dot", c.ExportDOT)

	k := r.Group("/api-keys")
	k.Use(serverutils.JwtMiddleware(c.jwtSecret), serverutils.RequireRoles(string(entity.UserRolePlatformAdmin)))
	k.Post("", c.IssueApiKey)
	k.Delete(":id", c.RevokeApiKey)
}

func (c *moduleController) ImportGraph(ctx *fiber.Ctx) error {
	moduleId, err := serverutils.ParamUUID(ctx, "id", "Module")
	if err != nil {
		return err
	}
	if len(ctx.Body()) == 0 {
		return apperr.BadRequest("Graph document is required")
	}

	res, err := c.modules.ImportGraph(ctx.UserContext(), moduleId, ctx.Body())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Decision graph imported", res))
}

func (c *moduleController) Publish(ctx *fiber.Ctx) error {
	moduleId, err := serverutils.ParamUUID(ctx, "id", "Module")
	if err != nil {
		return err
	}

	res, err := c.modules.Publish(ctx.UserContext(), moduleId)
	if err != nil {
		if problems, ok := service.GraphProblems(err); ok {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.BaseResponse[dto.GraphProblemsResponse]{
				Success: false,
				Code:    fiber.StatusBadRequest,
				Message: "Graph validation failed",
				Data:    dto.GraphProblemsResponse{Problems: problems},
			})
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Module published", res))
}

func (c *moduleController) ExportDOT(ctx *fiber.Ctx) error {
	moduleId, err := serverutils.ParamUUID(ctx, "id", "Module")
	if err != nil {
		return err
	}

	dot, err := c.modules.ExportDOT(ctx.UserContext(), moduleId)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/vnd.graphviz; charset=utf-8")
	return ctx.SendString(dot)
}

func (c *moduleController) IssueApiKey(ctx *fiber.Ctx) error {
	var req dto.IssueApiKeyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.apiKeys.IssueKey(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("API key issued", res))
}

func (c *moduleController) RevokeApiKey(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id", "API key")
	if err != nil {
		return err
	}

	if err := c.apiKeys.RevokeKey(ctx.UserContext(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("API key revoked", nil))
}
