package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/preyforum/preyforum/backend/models"
	"github.com/preyforum/preyforum/backend/utils"
	appconfig "github.com/preyforum/preyforum/preyforum/config"
)

// HandleGetProfile returns a user's public profile.
func (w *WebApp) HandleGetProfile(c *fiber.Ctx) error {
	uid := c.Params("uid")
	if uid == "" {
		return utils.SendBadRequest(c, "Invalid user ID", nil)
	}

	ctx, cancel := queryContext(c)
	defer cancel()

	user, err := w.Repos.User.GetByUID(ctx, uid)
	if err != nil {
		return utils.SendNotFound(c, "User not found")
	}

	return utils.SendSuccess(c, models.NewProfileDTO(user), "")
}

// HandleUpdateProfile updates the authenticated user's profile fields.
func (w *WebApp) HandleUpdateProfile(c *fiber.Ctx) error {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	var req models.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}
	if errs := utils.ValidateProfileUpdateRequest(&req); len(errs) > 0 {
		return utils.HandleValidationErrors(c, errs)
	}

	ctx, cancel := queryContext(c)
	defer cancel()

	user, err := w.Repos.User.GetByUID(ctx, session.PreyUID)
	if err != nil {
		return utils.SendNotFound(c, "User not found")
	}

	username := user.Username
	if req.Username != "" {
		username = req.Username
	}
	avatarURL := user.AvatarURL
	if req.AvatarURL != "" {
		avatarURL = req.AvatarURL
	}

	if err := w.Repos.User.UpdateProfile(ctx, session.PreyUID, username, avatarURL, req.Signature); err != nil {
		slog.Error("Failed to update profile",
			slog.String("prey_uid", session.PreyUID),
			slog.Any("error", err))
		return utils.SendInternalServerError(c, "Failed to update profile")
	}

	user, err = w.Repos.User.GetByUID(ctx, session.PreyUID)
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to load profile")
	}

	return utils.SendSuccess(c, models.NewProfileDTO(user), "Profile updated")
}

// HandleProgressCard renders a user's progression snapshot as a PNG.
func (w *WebApp) HandleProgressCard(c *fiber.Ctx) error {
	uid := c.Params("uid")
	if uid == "" {
		return utils.SendBadRequest(c, "Invalid user ID", nil)
	}

	ctx, cancel := queryContext(c)
	defer cancel()

	user, err := w.Repos.User.GetByUID(ctx, uid)
	if err != nil {
		return utils.SendNotFound(c, "User not found")
	}

	report, err := w.Engine.Report(ctx, uid)
	if err != nil {
		slog.Error("Failed to build progress report",
			slog.String("prey_uid", uid),
			slog.Any("error", err))
		return utils.SendInternalServerError(c, "Failed to build progress report")
	}

	image, err := w.ProgressCards.GenerateCard(ctx, user.Username, report)
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to render progress card")
	}

	c.Set("Content-Type", "image/png")
	c.Set("Cache-Control", "public, max-age=300")
	return c.Send(image)
}

// HandleLeaderboard returns the top users by balance.
func (w *WebApp) HandleLeaderboard(c *fiber.Ctx) error {
	ctx, cancel := queryContext(c)
	defer cancel()

	users, err := w.Repos.User.GetTopUsers(ctx, appconfig.LeaderboardLimit)
	if err != nil {
		slog.Error("Failed to load leaderboard", slog.Any("error", err))
		return utils.SendInternalServerError(c, "Failed to load leaderboard")
	}

	dtos := make([]*models.ProfileDTO, 0, len(users))
	for _, user := range users {
		dtos = append(dtos, models.NewProfileDTO(user))
	}

	return utils.SendSuccess(c, dtos, "")
}
