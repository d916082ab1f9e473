package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/novatube/user-service/internal/helper"
	"github.com/novatube/user-service/internal/helper/utils"
	"github.com/novatube/user-service/internal/repository"
)

// AuthMiddleware resolves the caller from the accessToken cookie or the
// Authorization header and attaches the redacted user record to the
// request. Any verification failure is a 401 before the handler runs.
func AuthMiddleware(auth helper.Auth, repo repository.UserRepository) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := strings.TrimSpace(ctx.Cookies("accessToken"))
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get("Authorization"))
		}
		if tokenStr == "" {
			return utils.ResponseError(ctx, utils.Unauthorized("Unauthorized request"))
		}

		claims, err := auth.VerifyAccessToken(tokenStr)
		if err != nil {
			return utils.ResponseError(ctx, utils.Unauthorized("Invalid access token"))
		}

		user, err := repo.FindUserByIDRedacted(claims.UserID)
		if err != nil || user == nil {
			return utils.ResponseError(ctx, utils.Unauthorized("Invalid access token"))
		}

		ctx.Locals("userID", user.ID)
		ctx.Locals("user", user)
		return ctx.Next()
	}
}
