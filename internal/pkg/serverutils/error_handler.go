package serverutils

import (
	"errors"

	"simvado-be/internal/pkg/apperr"
	"simvado-be/internal/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the
// response envelope. Unknown errors are logged and answered with a 500.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, log, err)
	}
}

func WriteError(ctx *fiber.Ctx, log logger.ILogger, err error) error {
	if e, ok := apperr.As(err); ok {
		if e.Status >= fiber.StatusInternalServerError {
			log.Error("HTTP", e.Error(), map[string]interface{}{
				"path":   ctx.Path(),
				"method": ctx.Method(),
			})
		}
		return ctx.Status(e.Status).JSON(ErrorResponse(e.Status, e.Message))
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return ctx.Status(fiber.StatusBadRequest).JSON(ValidationErrorResponse(ValidationMessages(verrs)))
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return ctx.Status(ferr.Code).JSON(ErrorResponse(ferr.Code, ferr.Message))
	}

	log.Error("HTTP", "Unhandled error", map[string]interface{}{
		"path":   ctx.Path(),
		"method": ctx.Method(),
		"error":  err.Error(),
	})
	return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
}
