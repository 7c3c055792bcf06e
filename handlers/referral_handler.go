package handlers

import (
	"strings"

	"github.com/anjiri1684/referral_rewards/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ContactRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=255"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,phone"`
}

func (r ContactRequest) toContact() models.Contact {
	return models.Contact{
		Name:  strings.TrimSpace(r.Name),
		Email: strings.TrimSpace(r.Email),
		Phone: strings.TrimSpace(r.Phone),
	}
}

type CreateReferralRequest struct {
	Referrer ContactRequest `json:"referrer"`
	Referee  ContactRequest `json:"referee"`
	CourseID string         `json:"courseId" validate:"required,uuid"`
}

type UpdateReferralStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed cancelled"`
}

func (h *Handler) CreateReferral(c *fiber.Ctx) error {
	var req CreateReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	referral, err := h.referrals.CreateReferral(c.UserContext(),
		req.Referrer.toContact(), req.Referee.toContact(), uuid.MustParse(req.CourseID))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(referral)
}

func (h *Handler) ListReferralsByReferrer(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return respondError(c, err)
	}

	referrals, err := h.referrals.ListByReferrer(c.UserContext(), email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(referrals)
}

func (h *Handler) UpdateReferralStatus(c *fiber.Ctx) error {
	referralID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid referral ID")
	}

	var req UpdateReferralStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	referral, err := h.referrals.SetStatus(c.UserContext(), referralID, models.ReferralStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(referral)
}

func (h *Handler) GetReferralStats(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return respondError(c, err)
	}

	stats, err := h.referrals.StatsByReferrer(c.UserContext(), email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
