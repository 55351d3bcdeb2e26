package handlers

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/preyforum/preyforum/backend/models"
	"github.com/preyforum/preyforum/backend/utils"
	dbmodels "github.com/preyforum/preyforum/preyforum/database/models"
)

// HandleListCategories returns every category.
func (w *WebApp) HandleListCategories(c *fiber.Ctx) error {
	ctx, cancel := queryContext(c)
	defer cancel()

	categories, err := w.Repos.Category.GetAll(ctx)
	if err != nil {
		slog.Error("Failed to list categories", slog.Any("error", err))
		return utils.SendInternalServerError(c, "Failed to list categories")
	}

	dtos := make([]*models.CategoryDTO, 0, len(categories))
	for _, category := range categories {
		dtos = append(dtos, models.NewCategoryDTO(category))
	}

	return utils.SendSuccess(c, dtos, "")
}

// HandleGetCategory returns a single category by ID.
func (w *WebApp) HandleGetCategory(c *fiber.Ctx) error {
	id, err := parseInt64(c.Params("id"))
	if err != nil {
		return utils.SendBadRequest(c, "Invalid category ID", nil)
	}

	ctx, cancel := queryContext(c)
	defer cancel()

	category, err := w.Repos.Category.GetByID(ctx, id)
	if err != nil {
		return utils.SendNotFound(c, "Category not found")
	}

	return utils.SendSuccess(c, models.NewCategoryDTO(category), "")
}

// HandleCreateCategory creates a new category. Admin only.
func (w *WebApp) HandleCreateCategory(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Type        string `json:"type"`
		IsUnique    bool   `json:"is_unique"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return utils.SendBadRequest(c, "Name is required", nil)
	}
	if req.Type == "" {
		req.Type = "discussion"
	}

	ctx, cancel := queryContext(c)
	defer cancel()

	category := &dbmodels.Category{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		IsUnique:    req.IsUnique,
	}
	if err := w.Repos.Category.Create(ctx, category); err != nil {
		slog.Error("Failed to create category",
			slog.String("name", req.Name),
			slog.Any("error", err))
		return utils.SendInternalServerError(c, "Failed to create category")
	}

	return utils.SendCreated(c, models.NewCategoryDTO(category), "Category created")
}
