package handlers

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/preyforum/preyforum/backend/models"
	"github.com/preyforum/preyforum/backend/utils"
	appconfig "github.com/preyforum/preyforum/preyforum/config"
	dbmodels "github.com/preyforum/preyforum/preyforum/database/models"
	"github.com/preyforum/preyforum/preyforum/progression"
)

// HandleCreateSession mints a session cookie for an identity already
// verified upstream, creating the forum user on first sight.
func (w *WebApp) HandleCreateSession(c *fiber.Ctx) error {
	var req models.SessionCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}

	if errs := utils.ValidateSessionCreateRequest(&req); len(errs) > 0 {
		return utils.HandleValidationErrors(c, errs)
	}

	ctx, cancel := queryContext(c)
	defer cancel()

	user, err := w.Repos.User.GetByUID(ctx, req.PreyUID)
	if err != nil {
		user = &dbmodels.User{
			PreyUID:  req.PreyUID,
			Username: req.Username,
			Role:     string(progression.RoleNewUser),
		}
		if err := w.Repos.User.Create(ctx, user); err != nil {
			slog.Error("Failed to create user for session",
				slog.String("prey_uid", req.PreyUID),
				slog.Any("error", err))
			return utils.SendInternalServerError(c, "Failed to create user")
		}
	}

	session := &models.UserSession{
		PreyUID:   user.PreyUID,
		Username:  user.Username,
		Role:      user.Role,
		IsAdmin:   strings.EqualFold(user.Role, string(progression.RoleAdministrator)),
		ExpiresAt: time.Now().Add(appconfig.SessionTTL),
	}
	if err := w.Sessions.CreateSession(c, session); err != nil {
		return utils.SendInternalServerError(c, "Failed to create session")
	}

	return utils.SendCreated(c, session, "Session created")
}

// HandleCurrentSession returns the authenticated session.
func (w *WebApp) HandleCurrentSession(c *fiber.Ctx) error {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}
	return utils.SendSuccess(c, session, "")
}

// HandleDestroySession clears the session cookie.
func (w *WebApp) HandleDestroySession(c *fiber.Ctx) error {
	w.Sessions.DestroySession(c)
	return utils.SendNoContent(c)
}
