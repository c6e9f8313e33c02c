package serverutils

import (
	"fmt"
	"strings"

	"simvado-be/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

func bearerToken(ctx *fiber.Ctx) (string, bool) {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(authHeader[7:])
	return token, token != ""
}

// JwtMiddleware verifies an HS256 token issued by the identity provider and
// stores the user_id and role claims in ctx.Locals.
func JwtMiddleware(secret string) fiber.Handler {
	key := []byte(secret)
	return func(ctx *fiber.Ctx) error {
		tokenStr, ok := bearerToken(ctx)
		if !ok {
			return apperr.Unauthorized("Missing token")
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return apperr.Unauthorized("Invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return apperr.Unauthorized("Invalid claims")
		}

		userId, _ := claims["user_id"].(string)
		if _, err := uuid.Parse(userId); err != nil {
			return apperr.Unauthorized("Invalid claims")
		}
		role, _ := claims["role"].(string)

		ctx.Locals(LocalUserID, userId)
		ctx.Locals(LocalRole, role)
		return ctx.Next()
	}
}

// RequireRoles must run after JwtMiddleware.
func RequireRoles(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(ctx *fiber.Ctx) error {
		role, _ := ctx.Locals(LocalRole).(string)
		if !allowed[role] {
			return apperr.Forbidden("Insufficient role")
		}
		return ctx.Next()
	}
}

// UserID reads the id stored by JwtMiddleware.
func UserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	s, _ := ctx.Locals(LocalUserID).(string)
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apperr.Unauthorized("Missing user")
	}
	return id, nil
}

// ParamUUID parses a path parameter. Malformed ids are reported as not found.
func ParamUUID(ctx *fiber.Ctx, name, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperr.NotFound(what + " not found")
	}
	return id, nil
}
