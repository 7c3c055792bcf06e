package services

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/anjiri1684/referral_rewards/metrics"
	"github.com/anjiri1684/referral_rewards/models"
	"github.com/shopspring/decimal"
)

// currencyPlaces is the precision of the smallest currency unit.
const currencyPlaces = 2

var hundred = decimal.NewFromInt(100)

type RewardSummary struct {
	ReferralCount      int                `json:"referralCount"`
	BaseReward         decimal.Decimal    `json:"baseReward"`
	BonusReward        decimal.Decimal    `json:"bonusReward"`
	TotalReward        decimal.Decimal    `json:"totalReward"`
	CurrentTier        *models.RewardTier `json:"currentTier"`
	NextTier           *models.RewardTier `json:"nextTier"`
	CompletedReferrals []models.Referral  `json:"completedReferrals"`
}

// ComputeRewardSummary turns a referrer's completed referrals and the active
// tiers into a summary. The base reward is the sum of each referral's course
// reward; the first tier whose range contains the referral count adds its
// bonus percentage once. Tiers are ordered by minReferrals and keep their
// input order on ties, so overlapping ranges resolve to the earlier tier.
// Amounts are rounded half away from zero to the smallest currency unit.
func ComputeRewardSummary(completed []models.Referral, tiers []models.RewardTier) RewardSummary {
	ordered := slices.Clone(tiers)
	slices.SortStableFunc(ordered, func(a, b models.RewardTier) int {
		return cmp.Compare(a.MinReferrals, b.MinReferrals)
	})

	if completed == nil {
		completed = []models.Referral{}
	}
	count := len(completed)

	base := decimal.Zero
	for _, referral := range completed {
		if referral.Course != nil {
			base = base.Add(referral.Course.ReferralReward)
		}
	}

	summary := RewardSummary{
		ReferralCount:      count,
		CompletedReferrals: completed,
	}

	for i := range ordered {
		if summary.CurrentTier == nil && ordered[i].Contains(count) {
			tier := ordered[i]
			summary.CurrentTier = &tier
		}
		if summary.NextTier == nil && ordered[i].MinReferrals > count {
			tier := ordered[i]
			summary.NextTier = &tier
		}
	}

	bonus := decimal.Zero
	if summary.CurrentTier != nil && summary.CurrentTier.BonusPercentage.IsPositive() {
		bonus = base.Mul(summary.CurrentTier.BonusPercentage).Div(hundred)
	}

	summary.BaseReward = base.Round(currencyPlaces)
	summary.BonusReward = bonus.Round(currencyPlaces)
	summary.TotalReward = base.Add(bonus).Round(currencyPlaces)
	return summary
}

// RewardCalculator reads the ledger and the tier catalog on every call; no
// summary is cached.
type RewardCalculator struct {
	referrals CompletedReferralReader
	tiers     ActiveTierReader
}

func NewRewardCalculator(referrals CompletedReferralReader, tiers ActiveTierReader) *RewardCalculator {
	return &RewardCalculator{referrals: referrals, tiers: tiers}
}

func (c *RewardCalculator) CalculateRewards(ctx context.Context, email string, now time.Time) (*RewardSummary, error) {
	completed, err := c.referrals.ListCompletedByReferrer(ctx, email)
	if err != nil {
		return nil, err
	}

	tiers, err := c.tiers.ListActive(ctx, now)
	if err != nil {
		return nil, err
	}

	summary := ComputeRewardSummary(completed, tiers)
	metrics.RecordRewardCalculation()
	return &summary, nil
}
