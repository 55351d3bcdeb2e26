package handlers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/preyforum/preyforum/backend/utils"
	appconfig "github.com/preyforum/preyforum/preyforum/config"
)

// HandleSearch fuzzy-matches categories and recent posts against the query.
func (w *WebApp) HandleSearch(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return utils.SendBadRequest(c, "Query is required", nil)
	}

	_, limit := parsePagination(c)

	ctx, cancel := context.WithTimeout(c.Context(), appconfig.SearchTimeout)
	defer cancel()

	results, err := w.Search.Search(ctx, query, limit)
	if err != nil {
		slog.Error("Search failed",
			slog.String("query", query),
			slog.Any("error", err))
		return utils.SendInternalServerError(c, "Search failed")
	}

	return utils.SendSuccess(c, results, "")
}
