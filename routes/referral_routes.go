package routes

import (
	"github.com/anjiri1684/referral_rewards/handlers"
	"github.com/anjiri1684/referral_rewards/middleware"
	"github.com/gofiber/fiber/v2"
)

func ReferralRoutes(api fiber.Router, h *handlers.Handler, guard adminGuard, limiter *middleware.RateLimiter) {
	referrals := api.Group("/referrals")

	if limiter != nil {
		referrals.Post("", limiter.Handler(), h.CreateReferral)
	} else {
		referrals.Post("", h.CreateReferral)
	}
	referrals.Get("/referrer/:email", h.ListReferralsByReferrer)
	referrals.Get("/stats/:email", h.GetReferralStats)
	referrals.Patch("/:id/status", guard.wrap(h.UpdateReferralStatus)...)
}
