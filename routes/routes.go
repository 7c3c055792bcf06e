package routes

import (
	"github.com/anjiri1684/referral_rewards/handlers"
	"github.com/anjiri1684/referral_rewards/middleware"
	"github.com/gofiber/fiber/v2"
)

type Options struct {
	JWTSecret       string
	ReferralLimiter *middleware.RateLimiter
}

// adminGuard runs before every catalog write and referral status change.
type adminGuard struct {
	protected fiber.Handler
	admin     fiber.Handler
}

func (g adminGuard) wrap(handler fiber.Handler) []fiber.Handler {
	return []fiber.Handler{g.protected, g.admin, handler}
}

// Setup mounts the whole API under /api.
func Setup(app *fiber.App, h *handlers.Handler, opts Options) {
	api := app.Group("/api")
	guard := adminGuard{
		protected: middleware.Protected(opts.JWTSecret),
		admin:     middleware.AdminRequired(),
	}

	AuthRoutes(api, h)
	CourseRoutes(api, h, guard)
	ReferralRoutes(api, h, guard, opts.ReferralLimiter)
	RewardRoutes(api, h, guard)
	UploadRoutes(api, h, guard)
	WebsocketRoutes(api, h)
}
