// handlers/challenge_routes.go
package handlers

import (
	"creator-compass-gamification/middleware"
	"creator-compass-gamification/services"

	"github.com/gofiber/fiber/v2"
)

func SetupChallengeRoutes(app *fiber.App, challenges *services.ChallengeService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/user/challenges", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		rows, err := challenges.GetActiveChallenges(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get challenges",
				"cause": err.Error(),
			})
		}
		return c.JSON(rows)
	})

	securedGroup.Post("/user/challenges/generate", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		rows, err := challenges.GenerateDailyChallenges(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to generate challenges",
				"cause": err.Error(),
			})
		}
		return c.JSON(rows)
	})

	securedGroup.Get("/user/challenges/:id/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		challengeID := c.Params("id")

		progress, err := challenges.GetChallengeProgress(userID, challengeID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get challenge progress",
				"cause": err.Error(),
			})
		}
		if progress == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "challenge not found"})
		}
		return c.JSON(progress)
	})

	securedGroup.Post("/user/challenges/:id/claim", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		challengeID := c.Params("id")

		result, err := challenges.ClaimChallenge(userID, challengeID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to claim challenge",
				"cause": err.Error(),
			})
		}
		if result == nil {
			// Not completed yet, already claimed, or not this user's challenge
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "challenge is not claimable",
			})
		}
		return c.JSON(result)
	})
}
