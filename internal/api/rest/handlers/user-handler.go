package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/novatube/user-service/config"
	"github.com/novatube/user-service/internal/domain"
	"github.com/novatube/user-service/internal/dto"
	"github.com/novatube/user-service/internal/helper/utils"
	"github.com/novatube/user-service/internal/services"
)

type UserHandler struct {
	svc services.UserService
	cfg config.Config
}

func NewUserHandler(svc services.UserService, cfg config.Config) *UserHandler {
	return &UserHandler{svc: svc, cfg: cfg}
}

func (h *UserHandler) SetupRoutes(app *fiber.App, authMW fiber.Handler) {
	users := app.Group("/api/v1/users")

	// Public
	users.Post("/registration", h.Register)
	users.Post("/login", h.Login)
	users.Get("/refresh-access-token", h.RefreshAccessToken)

	// Secured
	users.Post("/logout", authMW, h.Logout)
	users.Post("/password-change", authMW, h.ChangePassword)
	users.Post("/update-user-details", authMW, h.UpdateUserDetails)
	users.Post("/update-avatar", authMW, h.UpdateAvatar)
	users.Post("/update-cover-image", authMW, h.UpdateCoverImage)
	users.Get("/get-current-user", authMW, h.GetCurrentUser)
	users.Get("/channel/:username", authMW, h.GetChannelProfile)
	users.Get("/", authMW, h.GetAllUsers)
}

func (h *UserHandler) Register(ctx *fiber.Ctx) error {
	var input dto.RegisterRequest
	if err := ctx.BodyParser(&input); err != nil {
		return utils.ResponseError(ctx, utils.BadRequest("Please provide valid inputs"))
	}

	avatarPath, err := h.stageUpload(ctx, "avatar")
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	coverPath, err := h.stageUpload(ctx, "coverImage")
	if err != nil {
		removeIfExists(avatarPath)
		return utils.ResponseError(ctx, err)
	}

	// the media store removes staged files after each upload attempt;
	// this covers validation paths that never reach an upload
	defer removeIfExists(avatarPath)
	defer removeIfExists(coverPath)

	input.AvatarPath = avatarPath
	input.CoverImagePath = coverPath

	user, err := h.svc.Register(ctx.UserContext(), input)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusCreated, user, "User registered successfully")
}

func (h *UserHandler) Login(ctx *fiber.Ctx) error {
	var input dto.LoginRequest
	if err := ctx.BodyParser(&input); err != nil {
		return utils.ResponseError(ctx, utils.BadRequest("Username, email and password are required"))
	}

	result, err := h.svc.Login(input)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}

	h.setAuthCookies(ctx, result.AccessToken, result.RefreshToken)
	return utils.ResponseSuccess(ctx, fiber.StatusOK, result, "User logged in successfully")
}

func (h *UserHandler) Logout(ctx *fiber.Ctx) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}

	if err := h.svc.Logout(userID); err != nil {
		return utils.ResponseError(ctx, err)
	}

	clearAuthCookies(ctx)
	return utils.ResponseSuccess(ctx, fiber.StatusOK, nil, "User logged out")
}

func (h *UserHandler) RefreshAccessToken(ctx *fiber.Ctx) error {
	presented := ctx.Cookies("refreshToken")
	if presented == "" {
		var input dto.RefreshRequest
		if err := ctx.BodyParser(&input); err == nil {
			presented = input.RefreshToken
		}
	}

	pair, err := h.svc.RefreshAccessToken(presented)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}

	h.setAuthCookies(ctx, pair.AccessToken, pair.RefreshToken)
	return utils.ResponseSuccess(ctx, fiber.StatusOK, pair, "Access token refreshed")
}

func (h *UserHandler) ChangePassword(ctx *fiber.Ctx) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}

	var input dto.ChangePasswordRequest
	if err := ctx.BodyParser(&input); err != nil {
		return utils.ResponseError(ctx, utils.BadRequest("Please provide valid inputs"))
	}

	if err := h.svc.ChangePassword(userID, input); err != nil {
		return utils.ResponseError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, nil, "Password changed successfully")
}

func (h *UserHandler) UpdateUserDetails(ctx *fiber.Ctx) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}

	var input dto.UpdateUserDetails
	if err := ctx.BodyParser(&input); err != nil {
		return utils.ResponseError(ctx, utils.BadRequest("Please provide valid inputs"))
	}

	user, err := h.svc.UpdateUserDetails(userID, input)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, user, "User details updated")
}

func (h *UserHandler) UpdateAvatar(ctx *fiber.Ctx) error {
	return h.updateImage(ctx, "avatar")
}

func (h *UserHandler) UpdateCoverImage(ctx *fiber.Ctx) error {
	return h.updateImage(ctx, "coverImage")
}

func (h *UserHandler) updateImage(ctx *fiber.Ctx, field string) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}

	localPath, err := h.stageUpload(ctx, field)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}
	defer removeIfExists(localPath)

	var user *dto.UserResponse
	if field == "avatar" {
		user, err = h.svc.UpdateAvatar(ctx.UserContext(), userID, localPath)
	} else {
		user, err = h.svc.UpdateCoverImage(ctx.UserContext(), userID, localPath)
	}
	if err != nil {
		return utils.ResponseError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, user, "Image updated successfully")
}

func (h *UserHandler) GetCurrentUser(ctx *fiber.Ctx) error {
	user, ok := ctx.Locals("user").(*domain.User)
	if !ok || user == nil {
		return utils.ResponseError(ctx, utils.Unauthorized("Unauthorized request"))
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.NewUserResponse(user), "Current user fetched")
}

func (h *UserHandler) GetAllUsers(ctx *fiber.Ctx) error {
	users, err := h.svc.GetAllUsers()
	if err != nil {
		return utils.ResponseError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, users, "Users fetched")
}

func (h *UserHandler) GetChannelProfile(ctx *fiber.Ctx) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}

	profile, err := h.svc.GetChannelProfile(ctx.Params("username"), userID)
	if err != nil {
		return utils.ResponseError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, profile, "Channel profile fetched")
}

func currentUserID(ctx *fiber.Ctx) (uint, error) {
	userID, ok := ctx.Locals("userID").(uint)
	if !ok || userID == 0 {
		return 0, utils.Unauthorized("Unauthorized request")
	}
	return userID, nil
}

func (h *UserHandler) setAuthCookies(ctx *fiber.Ctx, accessToken, refreshToken string) {
	ctx.Cookie(&fiber.Cookie{
		Name:     "accessToken",
		Value:    accessToken,
		Expires:  time.Now().Add(h.cfg.AccessTTL),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	ctx.Cookie(&fiber.Cookie{
		Name:     "refreshToken",
		Value:    refreshToken,
		Expires:  time.Now().Add(h.cfg.RefreshTTL),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearAuthCookies(ctx *fiber.Ctx) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		ctx.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			Secure:   true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}
