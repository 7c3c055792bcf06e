package routes

import (
	"github.com/anjiri1684/referral_rewards/handlers"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func WebsocketRoutes(api fiber.Router, h *handlers.Handler) {
	api.Get("/ws/referrals", handlers.RequireUpgrade, websocket.New(h.ServeReferralFeed))
}
