package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/preyforum/preyforum/backend/models"
	"github.com/preyforum/preyforum/backend/services"
	"github.com/preyforum/preyforum/backend/utils"
	appconfig "github.com/preyforum/preyforum/preyforum/config"
)

// AuthRequired middleware ensures the user is authenticated
func AuthRequired(sessions *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := sessions.GetSession(c)
		if err != nil {
			slog.Debug("Auth required: no valid session", slog.String("error", err.Error()))
			return utils.SendUnauthorized(c, "Authentication required")
		}

		if session == nil || session.PreyUID == "" {
			slog.Debug("Auth required: invalid session")
			return utils.SendUnauthorized(c, "Authentication required")
		}

		// Sliding renewal: re-issue the cookie once a session passes the
		// midpoint of its lifetime, so active users never get logged out.
		if time.Until(session.ExpiresAt) < appconfig.SessionTTL/2 {
			if err := sessions.RefreshSession(c, session); err != nil {
				slog.Warn("Failed to refresh session",
					slog.String("prey_uid", session.PreyUID),
					slog.String("error", err.Error()))
			}
		}

		c.Locals("user", session)

		slog.Debug("Auth middleware: user authenticated",
			slog.String("prey_uid", session.PreyUID),
			slog.String("username", session.Username))

		return c.Next()
	}
}

// AdminRequired middleware ensures the user has admin privileges
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals("user")
		if user == nil {
			slog.Warn("Admin required: no user in context")
			return utils.SendForbidden(c, "Access denied")
		}

		session, ok := user.(*models.UserSession)
		if !ok {
			slog.Warn("Admin required: invalid user session type")
			return utils.SendForbidden(c, "Access denied")
		}

		if !session.IsAdmin {
			slog.Warn("Admin required: user lacks admin privileges",
				slog.String("prey_uid", session.PreyUID),
				slog.String("username", session.Username))
			return utils.SendForbidden(c, "Admin access required")
		}

		return c.Next()
	}
}

// OptionalAuth middleware adds user info to context if authenticated, but doesn't require it
func OptionalAuth(sessions *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := sessions.GetSession(c)
		if err == nil && session != nil && session.PreyUID != "" {
			c.Locals("user", session)
		}

		return c.Next()
	}
}
