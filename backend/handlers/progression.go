package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/preyforum/preyforum/backend/utils"
	"github.com/preyforum/preyforum/preyforum/progression"
)

// HandleProgressionReport returns the authenticated user's progression
// snapshot: balance, role, progress percentage and next milestone.
func (w *WebApp) HandleProgressionReport(c *fiber.Ctx) error {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	ctx, cancel := queryContext(c)
	defer cancel()

	report, err := w.Engine.Report(ctx, session.PreyUID)
	if err != nil {
		slog.Error("Failed to build progress report",
			slog.String("prey_uid", session.PreyUID),
			slog.Any("error", err))
		return utils.SendInternalServerError(c, "Failed to build progress report")
	}

	return utils.SendSuccess(c, report, "")
}

// HandleListCards returns the purchasable role cards with their costs.
func (w *WebApp) HandleListCards(c *fiber.Ctx) error {
	cards := w.Engine.Calculator().Cards()

	payload := make([]fiber.Map, 0, len(cards))
	for _, card := range cards {
		payload = append(payload, fiber.Map{
			"name": card.Name,
			"cost": card.Cost,
		})
	}

	return utils.SendSuccess(c, payload, "")
}

// HandleActivateCard spends the viewer's balance on a role card.
func (w *WebApp) HandleActivateCard(c *fiber.Ctx) error {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	cardName := c.Params("name")
	if cardName == "" {
		return utils.SendBadRequest(c, "Invalid card name", nil)
	}

	ctx, cancel := queryContext(c)
	defer cancel()

	balance, err := w.Engine.ActivateCard(ctx, session.PreyUID, cardName)
	if err != nil {
		switch {
		case errors.Is(err, progression.ErrUnknownCard):
			return utils.SendNotFound(c, "Unknown card")
		case errors.Is(err, progression.ErrInsufficientFunds):
			return utils.SendPaymentRequired(c, "Not enough Preycoin")
		default:
			slog.Error("Failed to activate card",
				slog.String("prey_uid", session.PreyUID),
				slog.String("card", cardName),
				slog.Any("error", err))
			return utils.SendInternalServerError(c, "Failed to activate card")
		}
	}

	return utils.SendSuccess(c, fiber.Map{
		"card":    cardName,
		"balance": balance,
	}, "Card activated")
}
