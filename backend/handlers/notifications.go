package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/preyforum/preyforum/backend/utils"
	appconfig "github.com/preyforum/preyforum/preyforum/config"
)

// HandleListNotifications returns the viewer's notification feed.
func (w *WebApp) HandleListNotifications(c *fiber.Ctx) error {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	ctx, cancel := queryContext(c)
	defer cancel()

	notifications, err := w.Repos.Notification.GetByUser(ctx, session.PreyUID, appconfig.NotificationsLimit)
	if err != nil {
		slog.Error("Failed to list notifications",
			slog.String("prey_uid", session.PreyUID),
			slog.Any("error", err))
		return utils.SendInternalServerError(c, "Failed to list notifications")
	}

	return utils.SendSuccess(c, notifications, "")
}

// HandleUnreadCount returns the viewer's unread notification count.
func (w *WebApp) HandleUnreadCount(c *fiber.Ctx) error {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	ctx, cancel := queryContext(c)
	defer cancel()

	count, err := w.Repos.Notification.UnreadCount(ctx, session.PreyUID)
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to count notifications")
	}

	return utils.SendSuccess(c, fiber.Map{"unread": count}, "")
}

// HandleMarkRead marks one notification as read.
func (w *WebApp) HandleMarkRead(c *fiber.Ctx) error {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	id, err := parseInt64(c.Params("id"))
	if err != nil {
		return utils.SendBadRequest(c, "Invalid notification ID", nil)
	}

	ctx, cancel := queryContext(c)
	defer cancel()

	if err := w.Repos.Notification.MarkRead(ctx, id, session.PreyUID); err != nil {
		return utils.SendNotFound(c, "Notification not found")
	}

	return utils.SendNoContent(c)
}

// HandleMarkAllRead marks the viewer's whole feed as read.
func (w *WebApp) HandleMarkAllRead(c *fiber.Ctx) error {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	ctx, cancel := queryContext(c)
	defer cancel()

	if err := w.Repos.Notification.MarkAllRead(ctx, session.PreyUID); err != nil {
		return utils.SendInternalServerError(c, "Failed to mark notifications read")
	}

	return utils.SendNoContent(c)
}
