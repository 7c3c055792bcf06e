package routes

import (
	"github.com/anjiri1684/referral_rewards/handlers"
	"github.com/gofiber/fiber/v2"
)

func CourseRoutes(api fiber.Router, h *handlers.Handler, guard adminGuard) {
	courses := api.Group("/courses")
	courses.Get("", h.ListActiveCourses)
	courses.Get("/stats/referrals", h.GetCourseReferralStats)
	courses.Get("/:id", h.GetCourse)

	courses.Post("", guard.wrap(h.CreateCourse)...)
	courses.Patch("/:id", guard.wrap(h.UpdateCourse)...)
	courses.Delete("/:id", guard.wrap(h.DeactivateCourse)...)
}
