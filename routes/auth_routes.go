package routes

import (
	"github.com/anjiri1684/referral_rewards/handlers"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(api fiber.Router, h *handlers.Handler) {
	auth := api.Group("/auth")
	auth.Post("/login", h.Login)
}
