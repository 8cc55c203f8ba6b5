// handlers/progression_routes.go
package handlers

import (
	"creator-compass-gamification/middleware"
	"creator-compass-gamification/models"
	"creator-compass-gamification/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressionRoutes(app *fiber.App, ledger *services.XPLedgerService, achievements *services.AchievementService, badges *services.BadgeService) {
	// 🔐 Secured routes — require user context forwarded by the Gateway.
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/user/level", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		level, err := ledger.GetUserLevel(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to compute level",
				"cause": err.Error(),
			})
		}
		return c.JSON(level)
	})

	securedGroup.Get("/user/xp/actions", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		actions, err := ledger.GetAvailableXPActions(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list xp actions",
				"cause": err.Error(),
			})
		}
		return c.JSON(actions)
	})

	securedGroup.Post("/user/xp/award", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			ActionID string            `json:"action_id"`
			Metadata map[string]string `json:"metadata,omitempty"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.ActionID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "action_id is required"})
		}
		if models.LookupXPAction(req.ActionID) == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown xp action"})
		}

		result, err := ledger.AwardXP(userID, req.ActionID, req.Metadata)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "XP award failed",
				"cause": err.Error(),
			})
		}
		if result == nil {
			// Daily cap reached — expected outcome, not a server failure
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":     "daily limit reached for this action",
				"action_id": req.ActionID,
			})
		}
		return c.JSON(result)
	})

	securedGroup.Get("/achievements", func(c *fiber.Ctx) error {
		return c.JSON(achievements.GetAchievements())
	})

	securedGroup.Get("/user/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		rows, err := achievements.GetUserAchievements(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get achievements",
				"cause": err.Error(),
			})
		}
		return c.JSON(rows)
	})

	securedGroup.Get("/user/achievements/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		progress, err := achievements.GetAchievementProgress(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to compute achievement progress",
				"cause": err.Error(),
			})
		}
		return c.JSON(progress)
	})

	securedGroup.Get("/user/badges", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		rows, err := badges.GetUserBadges(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get badges",
				"cause": err.Error(),
			})
		}
		return c.JSON(rows)
	})
}
