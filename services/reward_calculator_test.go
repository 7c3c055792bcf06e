package services

import (
	"context"
	"testing"
	"time"

	"github.com/anjiri1684/referral_rewards/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tier(name models.TierName, min, max int, bonus int64) models.RewardTier {
	return models.RewardTier{
		Tier:            name,
		MinReferrals:    min,
		MaxReferrals:    max,
		RewardAmount:    decimal.NewFromInt(500),
		BonusPercentage: decimal.NewFromInt(bonus),
		Active:          true,
	}
}

func standardTiers() []models.RewardTier {
	return []models.RewardTier{
		tier(models.TierBronze, 1, 3, 0),
		tier(models.TierSilver, 4, 7, 10),
		tier(models.TierGold, 8, 12, 20),
	}
}

func completedReferrals(rewards ...string) []models.Referral {
	referrals := make([]models.Referral, 0, len(rewards))
	for _, reward := range rewards {
		referrals = append(referrals, models.Referral{
			Status:        models.ReferralStatusCompleted,
			RewardClaimed: true,
			Course:        &models.Course{Name: "Course", ReferralReward: decimal.RequireFromString(reward)},
		})
	}
	return referrals
}

func TestComputeRewardSummary(t *testing.T) {
	t.Run("Success - No completed referrals", func(t *testing.T) {
		summary := ComputeRewardSummary(nil, standardTiers())

		assert.Equal(t, 0, summary.ReferralCount)
		assert.True(t, summary.TotalReward.IsZero())
		assert.Nil(t, summary.CurrentTier)
		require.NotNil(t, summary.NextTier)
		assert.Equal(t, models.TierBronze, summary.NextTier.Tier)
		assert.NotNil(t, summary.CompletedReferrals)
	})

	t.Run("Success - Silver bonus applied once", func(t *testing.T) {
		referrals := completedReferrals("500", "500", "500", "750", "750")

		summary := ComputeRewardSummary(referrals, standardTiers())

		assert.Equal(t, 5, summary.ReferralCount)
		require.NotNil(t, summary.CurrentTier)
		assert.Equal(t, models.TierSilver, summary.CurrentTier.Tier)
		assert.Equal(t, "3000", summary.BaseReward.String())
		assert.Equal(t, "300", summary.BonusReward.String())
		assert.Equal(t, "3300", summary.TotalReward.String())
		require.NotNil(t, summary.NextTier)
		assert.Equal(t, models.TierGold, summary.NextTier.Tier)
	})

	t.Run("Success - Tier with zero bonus adds nothing", func(t *testing.T) {
		summary := ComputeRewardSummary(completedReferrals("1000", "1000"), standardTiers())

		require.NotNil(t, summary.CurrentTier)
		assert.Equal(t, models.TierBronze, summary.CurrentTier.Tier)
		assert.Equal(t, "2000", summary.TotalReward.String())
	})

	t.Run("Success - Range bounds are inclusive", func(t *testing.T) {
		atMax := ComputeRewardSummary(completedReferrals("100", "100", "100"), standardTiers())
		require.NotNil(t, atMax.CurrentTier)
		assert.Equal(t, models.TierBronze, atMax.CurrentTier.Tier)
		assert.Equal(t, models.TierSilver, atMax.NextTier.Tier)

		atMin := ComputeRewardSummary(completedReferrals("100", "100", "100", "100"), standardTiers())
		require.NotNil(t, atMin.CurrentTier)
		assert.Equal(t, models.TierSilver, atMin.CurrentTier.Tier)
	})

	t.Run("Success - Referrals without course contribute nothing", func(t *testing.T) {
		referrals := completedReferrals("1000")
		referrals = append(referrals, models.Referral{Status: models.ReferralStatusCompleted})

		summary := ComputeRewardSummary(referrals, standardTiers())

		assert.Equal(t, 2, summary.ReferralCount)
		assert.Equal(t, "1000", summary.TotalReward.String())
	})

	t.Run("Success - Gap between ranges has no current tier", func(t *testing.T) {
		tiers := []models.RewardTier{tier(models.TierBronze, 1, 2, 0), tier(models.TierSilver, 5, 7, 10)}

		summary := ComputeRewardSummary(completedReferrals("100", "100", "100"), tiers)

		assert.Nil(t, summary.CurrentTier)
		require.NotNil(t, summary.NextTier)
		assert.Equal(t, models.TierSilver, summary.NextTier.Tier)
		assert.Equal(t, "300", summary.TotalReward.String())
	})

	t.Run("Success - Beyond the top tier has no next tier", func(t *testing.T) {
		rewards := make([]string, 13)
		for i := range rewards {
			rewards[i] = "100"
		}

		summary := ComputeRewardSummary(completedReferrals(rewards...), standardTiers())

		assert.Nil(t, summary.CurrentTier)
		assert.Nil(t, summary.NextTier)
		assert.Equal(t, "1300", summary.TotalReward.String())
	})

	t.Run("Success - Unordered tiers are sorted by minimum", func(t *testing.T) {
		tiers := standardTiers()
		tiers[0], tiers[2] = tiers[2], tiers[0]

		summary := ComputeRewardSummary(nil, tiers)

		require.NotNil(t, summary.NextTier)
		assert.Equal(t, models.TierBronze, summary.NextTier.Tier)
	})

	t.Run("Success - Overlapping ranges resolve to the earlier tier", func(t *testing.T) {
		tiers := []models.RewardTier{
			tier(models.TierGold, 2, 6, 20),
			tier(models.TierSilver, 2, 4, 10),
		}

		summary := ComputeRewardSummary(completedReferrals("100", "100", "100"), tiers)

		require.NotNil(t, summary.CurrentTier)
		assert.Equal(t, models.TierGold, summary.CurrentTier.Tier)
		assert.Equal(t, "360", summary.TotalReward.String())
	})

	t.Run("Success - Bonus rounds half away from zero", func(t *testing.T) {
		tiers := []models.RewardTier{tier(models.TierBronze, 1, 3, 0)}
		tiers[0].BonusPercentage = decimal.RequireFromString("12.5")

		summary := ComputeRewardSummary(completedReferrals("0.20"), tiers)

		assert.Equal(t, "0.03", summary.BonusReward.String())
		assert.Equal(t, "0.23", summary.TotalReward.String())
	})

	t.Run("Success - Contiguous tiers cover every count from the first minimum", func(t *testing.T) {
		tiers := append(standardTiers(), tier(models.TierPlatinum, 13, 999999, 30))

		for count := 0; count <= 40; count++ {
			rewards := make([]string, count)
			for i := range rewards {
				rewards[i] = "1"
			}
			summary := ComputeRewardSummary(completedReferrals(rewards...), tiers)

			matches := 0
			for i := range tiers {
				if tiers[i].Contains(count) {
					matches++
				}
			}
			if count < 1 {
				assert.Nil(t, summary.CurrentTier, "count %d", count)
				continue
			}
			assert.Equal(t, 1, matches, "count %d", count)
			require.NotNil(t, summary.CurrentTier, "count %d", count)
			assert.True(t, summary.CurrentTier.Contains(count), "count %d", count)
		}
	})
}

type stubCompletedReader struct {
	referrals []models.Referral
	email     string
}

func (s *stubCompletedReader) ListCompletedByReferrer(_ context.Context, email string) ([]models.Referral, error) {
	s.email = email
	return s.referrals, nil
}

type stubTierReader struct {
	tiers []models.RewardTier
	now   time.Time
}

func (s *stubTierReader) ListActive(_ context.Context, now time.Time) ([]models.RewardTier, error) {
	s.now = now
	return s.tiers, nil
}

func TestRewardCalculator_CalculateRewards(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	referrals := &stubCompletedReader{referrals: completedReferrals("600", "600", "600", "600", "600")}
	tiers := &stubTierReader{tiers: standardTiers()}
	calculator := NewRewardCalculator(referrals, tiers)

	summary, err := calculator.CalculateRewards(context.Background(), "asha@example.com", now)

	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", referrals.email)
	assert.Equal(t, now, tiers.now)
	assert.Equal(t, "3300", summary.TotalReward.String())
	assert.Equal(t, models.TierSilver, summary.CurrentTier.Tier)
}
