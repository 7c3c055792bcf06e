package routes

import (
	"github.com/anjiri1684/referral_rewards/handlers"
	"github.com/gofiber/fiber/v2"
)

func RewardRoutes(api fiber.Router, h *handlers.Handler, guard adminGuard) {
	rewards := api.Group("/rewards")
	rewards.Get("", h.ListActiveTiers)
	rewards.Get("/calculate/:email", h.CalculateRewards)
	rewards.Get("/calculate/:email/statement", h.DownloadRewardStatement)

	rewards.Post("", guard.wrap(h.CreateTier)...)
	rewards.Patch("/:id", guard.wrap(h.UpdateTier)...)
	rewards.Delete("/:id", guard.wrap(h.DeactivateTier)...)
}
