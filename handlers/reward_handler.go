package handlers

import (
	"fmt"

	"github.com/anjiri1684/referral_rewards/models"
	"github.com/anjiri1684/referral_rewards/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TierRequest struct {
	Tier            string          `json:"tier" validate:"required,oneof=bronze silver gold platinum"`
	MinReferrals    *int            `json:"minReferrals" validate:"required,min=0"`
	MaxReferrals    *int            `json:"maxReferrals" validate:"required"`
	RewardAmount    decimal.Decimal `json:"rewardAmount"`
	Description     string          `json:"description" validate:"required"`
	BonusPercentage decimal.Decimal `json:"bonusPercentage"`
	ValidUntil      *DateTime       `json:"validUntil" validate:"required"`
	Conditions      []string        `json:"conditions" validate:"omitempty,dive,required"`
}

type UpdateTierRequest struct {
	Tier            *string          `json:"tier" validate:"omitempty,oneof=bronze silver gold platinum"`
	MinReferrals    *int             `json:"minReferrals" validate:"omitempty,min=0"`
	MaxReferrals    *int             `json:"maxReferrals"`
	RewardAmount    *decimal.Decimal `json:"rewardAmount"`
	Description     *string          `json:"description"`
	BonusPercentage *decimal.Decimal `json:"bonusPercentage"`
	Active          *bool            `json:"active"`
	ValidUntil      *DateTime        `json:"validUntil"`
	Conditions      []string         `json:"conditions" validate:"omitempty,dive,required"`
}

func (h *Handler) ListActiveTiers(c *fiber.Ctx) error {
	tiers, err := h.tiers.ListActiveTiers(c.UserContext(), h.now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tiers)
}

func (h *Handler) CreateTier(c *fiber.Ctx) error {
	var req TierRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	tier, err := h.tiers.CreateTier(c.UserContext(), services.TierInput{
		Tier:            models.TierName(req.Tier),
		MinReferrals:    *req.MinReferrals,
		MaxReferrals:    *req.MaxReferrals,
		RewardAmount:    req.RewardAmount,
		Description:     req.Description,
		BonusPercentage: req.BonusPercentage,
		ValidUntil:      req.ValidUntil.Time,
		Conditions:      req.Conditions,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tier)
}

func (h *Handler) UpdateTier(c *fiber.Ctx) error {
	tierID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid reward tier ID")
	}

	var req UpdateTierRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	patch := services.TierPatch{
		MinReferrals:    req.MinReferrals,
		MaxReferrals:    req.MaxReferrals,
		RewardAmount:    req.RewardAmount,
		Description:     req.Description,
		BonusPercentage: req.BonusPercentage,
		Active:          req.Active,
		Conditions:      req.Conditions,
	}
	if req.ValidUntil != nil {
		patch.ValidUntil = &req.ValidUntil.Time
	}
	if req.Tier != nil {
		name := models.TierName(*req.Tier)
		patch.Tier = &name
	}

	tier, err := h.tiers.UpdateTier(c.UserContext(), tierID, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tier)
}

func (h *Handler) DeactivateTier(c *fiber.Ctx) error {
	tierID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid reward tier ID")
	}

	if err := h.tiers.DeactivateTier(c.UserContext(), tierID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reward tier deactivated successfully"})
}

func (h *Handler) CalculateRewards(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return respondError(c, err)
	}

	summary, err := h.rewards.CalculateRewards(c.UserContext(), email, h.now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// DownloadRewardStatement streams the reward summary as a PDF.
func (h *Handler) DownloadRewardStatement(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return respondError(c, err)
	}

	now := h.now()
	summary, err := h.rewards.CalculateRewards(c.UserContext(), email, now)
	if err != nil {
		return respondError(c, err)
	}

	pdf, err := h.statements.Render(c.UserContext(), summary, email, now)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="reward-statement-%s.pdf"`, now.Format("2006-01-02")))
	return c.Send(pdf)
}
