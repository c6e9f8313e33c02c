package serverutils

import (
	"context"

	"simvado-be/internal/entity"
	"simvado-be/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

const LocalApiKey = "api_key"

type ApiKeyVerifier interface {
	VerifyKey(ctx context.Context, plaintext string) (*entity.ApiKey, error)
}

// ApiKeyMiddleware authenticates game-engine clients with a Bearer API key.
func ApiKeyMiddleware(verifier ApiKeyVerifier) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		key, ok := bearerToken(ctx)
		if !ok {
			return apperr.Unauthorized("Missing API key")
		}

		record, err := verifier.VerifyKey(ctx.UserContext(), key)
		if err != nil {
			return err
		}
		if record == nil {
			return apperr.Unauthorized("Invalid API key")
		}

		ctx.Locals(LocalApiKey, record)
		return ctx.Next()
	}
}
