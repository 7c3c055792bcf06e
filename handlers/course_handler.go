package handlers

import (
	"github.com/anjiri1684/referral_rewards/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CourseRequest struct {
	Name           string           `json:"name" validate:"required,max=255"`
	Description    string           `json:"description" validate:"required"`
	Duration       string           `json:"duration" validate:"required,max=100"`
	Fee            *decimal.Decimal `json:"fee" validate:"required"`
	ReferralReward *decimal.Decimal `json:"referralReward"`
	ImageURL       *string          `json:"imageUrl" validate:"omitempty,url"`
}

type UpdateCourseRequest struct {
	Name           *string          `json:"name" validate:"omitempty,max=255"`
	Description    *string          `json:"description"`
	Duration       *string          `json:"duration" validate:"omitempty,max=100"`
	Fee            *decimal.Decimal `json:"fee"`
	ReferralReward *decimal.Decimal `json:"referralReward"`
	ImageURL       *string          `json:"imageUrl" validate:"omitempty,url"`
	Active         *bool            `json:"active"`
}

func (h *Handler) ListActiveCourses(c *fiber.Ctx) error {
	courses, err := h.courses.ListActiveCourses(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(courses)
}

func (h *Handler) GetCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid course ID")
	}

	course, err := h.courses.GetCourse(c.UserContext(), courseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(course)
}

func (h *Handler) CreateCourse(c *fiber.Ctx) error {
	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	course, err := h.courses.CreateCourse(c.UserContext(), services.CourseInput{
		Name:           req.Name,
		Description:    req.Description,
		Duration:       req.Duration,
		Fee:            *req.Fee,
		ReferralReward: req.ReferralReward,
		ImageURL:       req.ImageURL,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

func (h *Handler) UpdateCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid course ID")
	}

	var req UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	course, err := h.courses.UpdateCourse(c.UserContext(), courseID, services.CoursePatch{
		Name:           req.Name,
		Description:    req.Description,
		Duration:       req.Duration,
		Fee:            req.Fee,
		ReferralReward: req.ReferralReward,
		ImageURL:       req.ImageURL,
		Active:         req.Active,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(course)
}

func (h *Handler) DeactivateCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid course ID")
	}

	if err := h.courses.DeactivateCourse(c.UserContext(), courseID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Course deactivated successfully"})
}

func (h *Handler) GetCourseReferralStats(c *fiber.Ctx) error {
	stats, err := h.courses.ReferralStats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
