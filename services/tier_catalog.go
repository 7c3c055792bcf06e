package services

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/referral_rewards/apperrors"
	"github.com/anjiri1684/referral_rewards/metrics"
	"github.com/anjiri1684/referral_rewards/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TierInput struct {
	Tier            models.TierName
	MinReferrals    int
	MaxReferrals    int
	RewardAmount    decimal.Decimal
	Description     string
	BonusPercentage decimal.Decimal
	ValidUntil      time.Time
	Conditions      []string
}

// TierPatch holds the fields of a partial update; nil fields are left as is.
type TierPatch struct {
	Tier            *models.TierName
	MinReferrals    *int
	MaxReferrals    *int
	RewardAmount    *decimal.Decimal
	Description     *string
	BonusPercentage *decimal.Decimal
	Active          *bool
	ValidUntil      *time.Time
	Conditions      []string
}

type TierCatalog struct {
	tiers TierStore
}

func NewTierCatalog(tiers TierStore) *TierCatalog {
	return &TierCatalog{tiers: tiers}
}

func (s *TierCatalog) ListActiveTiers(ctx context.Context, now time.Time) ([]models.RewardTier, error) {
	return s.tiers.ListActive(ctx, now)
}

func (s *TierCatalog) CreateTier(ctx context.Context, input TierInput) (*models.RewardTier, error) {
	tier := &models.RewardTier{
		Tier:            input.Tier,
		MinReferrals:    input.MinReferrals,
		MaxReferrals:    input.MaxReferrals,
		RewardAmount:    input.RewardAmount,
		Description:     input.Description,
		BonusPercentage: input.BonusPercentage,
		Active:          true,
		ValidUntil:      input.ValidUntil,
		Conditions:      input.Conditions,
	}
	if tier.Conditions == nil {
		tier.Conditions = []string{}
	}

	if err := validateTier(tier); err != nil {
		return nil, err
	}

	exists, err := s.tiers.ExistsByTier(ctx, tier.Tier, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict("Reward tier already exists")
	}

	if err := s.tiers.Create(ctx, tier); err != nil {
		return nil, err
	}
	return tier, nil
}

func (s *TierCatalog) UpdateTier(ctx context.Context, id uuid.UUID, patch TierPatch) (*models.RewardTier, error) {
	tier, err := s.tiers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Tier != nil {
		tier.Tier = *patch.Tier
	}
	if patch.MinReferrals != nil {
		tier.MinReferrals = *patch.MinReferrals
	}
	if patch.MaxReferrals != nil {
		tier.MaxReferrals = *patch.MaxReferrals
	}
	if patch.RewardAmount != nil {
		tier.RewardAmount = *patch.RewardAmount
	}
	if patch.Description != nil {
		tier.Description = *patch.Description
	}
	if patch.BonusPercentage != nil {
		tier.BonusPercentage = *patch.BonusPercentage
	}
	if patch.Active != nil {
		tier.Active = *patch.Active
	}
	if patch.ValidUntil != nil {
		tier.ValidUntil = *patch.ValidUntil
	}
	if patch.Conditions != nil {
		tier.Conditions = patch.Conditions
	}

	if err := validateTier(tier); err != nil {
		return nil, err
	}

	if patch.Tier != nil {
		exists, err := s.tiers.ExistsByTier(ctx, tier.Tier, tier.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.Conflict("Reward tier already exists")
		}
	}

	if err := s.tiers.Save(ctx, tier); err != nil {
		return nil, err
	}
	return tier, nil
}

func (s *TierCatalog) DeactivateTier(ctx context.Context, id uuid.UUID) error {
	return s.tiers.Deactivate(ctx, id)
}

// ExpireTiers deactivates tiers whose validity ended at or before now.
func (s *TierCatalog) ExpireTiers(ctx context.Context, now time.Time) (int64, error) {
	count, err := s.tiers.DeactivateExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	metrics.RecordTiersExpired(count)
	return count, nil
}

func validateTier(tier *models.RewardTier) error {
	if !tier.Tier.Valid() {
		return apperrors.Validation(fmt.Sprintf("Tier must be one of bronze, silver, gold or platinum, got %q", tier.Tier))
	}
	if tier.MinReferrals < 0 {
		return apperrors.Validation("Minimum referrals cannot be negative")
	}
	if tier.MinReferrals >= tier.MaxReferrals {
		return apperrors.Validation("Minimum referrals must be less than maximum referrals")
	}
	if tier.RewardAmount.IsNegative() {
		return apperrors.Validation("Reward amount cannot be negative")
	}
	if tier.BonusPercentage.IsNegative() || tier.BonusPercentage.GreaterThan(hundred) {
		return apperrors.Validation("Bonus percentage must be between 0 and 100")
	}
	if tier.ValidUntil.IsZero() {
		return apperrors.Validation("Valid until is required")
	}
	return nil
}
