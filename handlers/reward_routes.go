// handlers/reward_routes.go
package handlers

import (
	"fmt"
	"path/filepath"

	"creator-compass-gamification/middleware"
	"creator-compass-gamification/models"
	"creator-compass-gamification/services"
	"creator-compass-gamification/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
)

func SetupRewardRoutes(app *fiber.App, rewards *services.RewardService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/user/rewards/tiers", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		tiers, err := rewards.GetRewardTiers(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get reward tiers",
				"cause": err.Error(),
			})
		}
		return c.JSON(tiers)
	})

	securedGroup.Get("/user/rewards/unlocked", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		tiers, err := rewards.GetUserUnlockedRewards(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get unlocked rewards",
				"cause": err.Error(),
			})
		}
		return c.JSON(tiers)
	})

	securedGroup.Get("/user/rewards/active", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		tiers, err := rewards.GetUserActiveRewards(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get active rewards",
				"cause": err.Error(),
			})
		}
		return c.JSON(tiers)
	})

	securedGroup.Get("/user/rewards/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		progress, err := rewards.GetRewardProgress(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to compute reward progress",
				"cause": err.Error(),
			})
		}
		return c.JSON(progress)
	})

	securedGroup.Post("/user/rewards/:id/claim", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		rewardID := c.Params("id")

		claimed, err := rewards.ClaimReward(userID, rewardID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to claim reward",
				"cause": err.Error(),
			})
		}
		if !claimed {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "reward is not claimable",
			})
		}
		return c.JSON(fiber.Map{"message": "Reward claimed successfully", "reward_id": rewardID})
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	// Upload badge artwork; stored in R2 when configured, local uploads/ otherwise.
	adminGroup.Post("/badges/:code/icon", func(c *fiber.Ctx) error {
		code := c.Params("code")
		badge := models.LookupBadge(code)
		if badge == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown badge code"})
		}

		fileHeader, err := c.FormFile("icon")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "icon file is required"})
		}

		key := fmt.Sprintf("badges/%s%s", slug.Make(badge.Name), filepath.Ext(fileHeader.Filename))

		var iconURL string
		if utils.R2Configured() {
			iconURL, err = utils.UploadFileToR2(fileHeader, key)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to upload icon",
					"cause": err.Error(),
				})
			}
		} else {
			dest := utils.UploadPath(key)
			if err := utils.SaveFile(fileHeader, dest); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to save icon",
					"cause": err.Error(),
				})
			}
			iconURL = "/" + dest
		}

		return c.JSON(fiber.Map{"code": badge.Code, "icon_url": iconURL})
	})
}
