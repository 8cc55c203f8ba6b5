// handlers/leaderboard_routes.go
package handlers

import (
	"strconv"

	"creator-compass-gamification/middleware"
	"creator-compass-gamification/models"
	"creator-compass-gamification/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app *fiber.App, leaderboards *services.LeaderboardService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/leaderboard", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		lbType := models.LeaderboardType(c.Query("type", string(models.LeaderboardXP)))
		timeframe := models.LeaderboardTimeframe(c.Query("timeframe", string(models.TimeframeAllTime)))
		limit, _ := strconv.Atoi(c.Query("limit", "50"))

		entries, err := leaderboards.GetLeaderboard(lbType, timeframe, limit, userID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to build leaderboard",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"type":      lbType,
			"timeframe": timeframe,
			"entries":   entries,
		})
	})

	securedGroup.Get("/user/leaderboard/positions", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		positions, err := leaderboards.GetUserLeaderboardPositions(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to compute positions",
				"cause": err.Error(),
			})
		}
		return c.JSON(positions)
	})

	securedGroup.Get("/leaderboard/snapshot", func(c *fiber.Ctx) error {
		lbType := models.LeaderboardType(c.Query("type", string(models.LeaderboardXP)))
		timeframe := models.LeaderboardTimeframe(c.Query("timeframe", string(models.TimeframeAllTime)))

		snap, err := leaderboards.GetLatestSnapshot(lbType, timeframe)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to read snapshot",
				"cause": err.Error(),
			})
		}
		if snap == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no snapshot captured yet"})
		}
		return c.JSON(snap)
	})
}
