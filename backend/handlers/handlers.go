package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/preyforum/preyforum/backend/config"
	"github.com/preyforum/preyforum/backend/middleware"
	webmodels "github.com/preyforum/preyforum/backend/models"
	webservices "github.com/preyforum/preyforum/backend/services"
	appconfig "github.com/preyforum/preyforum/preyforum/config"
	"github.com/preyforum/preyforum/preyforum/database"
	"github.com/preyforum/preyforum/preyforum/progression"
	"github.com/preyforum/preyforum/preyforum/services"
)

// WebApp represents the web application with all dependencies
type WebApp struct {
	Config        *config.WebAppConfig
	DB            *database.DB
	Repos         *webmodels.Repositories
	Engine        *progression.Engine
	Spaces        *services.SpacesService
	Search        *services.SearchService
	ProgressCards *services.ProgressCardService
	Sessions      *webservices.SessionService
	Version       string
}

// SetupRoutes registers every API route on the Fiber app.
func (w *WebApp) SetupRoutes(app *fiber.App) {
	api := app.Group("/api", middleware.APIRateLimit())

	api.Get("/health", w.HandleHealth)

	api.Post("/session", middleware.SessionRateLimit(), w.HandleCreateSession)
	api.Get("/session", middleware.AuthRequired(w.Sessions), w.HandleCurrentSession)
	api.Delete("/session", w.HandleDestroySession)

	api.Get("/categories", w.HandleListCategories)
	api.Get("/categories/:id", w.HandleGetCategory)
	api.Get("/categories/:id/posts", middleware.OptionalAuth(w.Sessions), w.HandleListCategoryPosts)
	api.Post("/categories/:id/posts", middleware.AuthRequired(w.Sessions), w.HandleCreatePost)
	api.Post("/categories", middleware.AuthRequired(w.Sessions), middleware.AdminRequired(),
		middleware.AuditLogMiddleware("category_create"), w.HandleCreateCategory)

	api.Get("/posts/recent", middleware.OptionalAuth(w.Sessions), w.HandleRecentPosts)
	api.Get("/posts/:id", middleware.OptionalAuth(w.Sessions), w.HandleGetPost)
	api.Delete("/posts/:id", middleware.AuthRequired(w.Sessions), w.HandleDeletePost)
	api.Post("/posts/:id/like", middleware.AuthRequired(w.Sessions), w.HandleTogglePostLike)
	api.Post("/posts/:id/comments", middleware.AuthRequired(w.Sessions), w.HandleCreateComment)

	api.Post("/comments/:id/like", middleware.AuthRequired(w.Sessions), w.HandleToggleCommentLike)
	api.Delete("/comments/:id", middleware.AuthRequired(w.Sessions), w.HandleDeleteComment)

	api.Get("/profiles/:uid", w.HandleGetProfile)
	api.Get("/profiles/:uid/progress-card", w.HandleProgressCard)
	api.Patch("/profile", middleware.AuthRequired(w.Sessions), w.HandleUpdateProfile)
	api.Get("/leaderboard", w.HandleLeaderboard)

	api.Get("/progression/report", middleware.AuthRequired(w.Sessions), w.HandleProgressionReport)
	api.Get("/progression/cards", w.HandleListCards)
	api.Post("/progression/cards/:name/activate", middleware.AuthRequired(w.Sessions), w.HandleActivateCard)

	api.Post("/uploads", middleware.AuthRequired(w.Sessions), middleware.UploadRateLimit(), w.HandleUpload)

	api.Get("/search", w.HandleSearch)

	api.Get("/notifications", middleware.AuthRequired(w.Sessions), w.HandleListNotifications)
	api.Get("/notifications/unread-count", middleware.AuthRequired(w.Sessions), w.HandleUnreadCount)
	api.Post("/notifications/read-all", middleware.AuthRequired(w.Sessions), w.HandleMarkAllRead)
	api.Post("/notifications/:id/read", middleware.AuthRequired(w.Sessions), w.HandleMarkRead)
}

// parseInt64 is a utility function to parse int64 from string
func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// parsePagination extracts page/limit query params with sane bounds.
func parsePagination(c *fiber.Ctx) (page, limit int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("limit", appconfig.DefaultPageSize)
	if limit < 1 {
		limit = appconfig.DefaultPageSize
	}
	if limit > appconfig.MaxPageSize {
		limit = appconfig.MaxPageSize
	}
	return page, limit
}

// queryContext returns a request-scoped context bounded by the standard
// query timeout.
func queryContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context(), appconfig.DefaultQueryTimeout)
}
