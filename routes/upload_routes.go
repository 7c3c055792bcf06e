package routes

import (
	"github.com/anjiri1684/referral_rewards/handlers"
	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(api fiber.Router, h *handlers.Handler, guard adminGuard) {
	uploads := api.Group("/uploads")
	uploads.Get("/signature", guard.wrap(h.GenerateUploadSignature)...)
}
