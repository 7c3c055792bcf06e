package database

import (
	"fmt"
	"time"

	"github.com/anjiri1684/referral_rewards/logging"
	"github.com/anjiri1684/referral_rewards/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func defaultCourses() []models.Course {
	return []models.Course{
		{
			Name:           "Full Stack Web Development",
			Description:    "Learn modern web development with the MERN stack",
			Duration:       "6 months",
			Fee:            decimal.NewFromInt(49999),
			ReferralReward: decimal.NewFromInt(2000),
			Active:         true,
		},
		{
			Name:           "Data Science & Machine Learning",
			Description:    "Master data analysis and ML algorithms",
			Duration:       "8 months",
			Fee:            decimal.NewFromInt(59999),
			ReferralReward: decimal.NewFromInt(2500),
			Active:         true,
		},
		{
			Name:           "Mobile App Development",
			Description:    "Build iOS and Android apps with React Native",
			Duration:       "4 months",
			Fee:            decimal.NewFromInt(39999),
			ReferralReward: decimal.NewFromInt(1500),
			Active:         true,
		},
		{
			Name:           "UI/UX Design",
			Description:    "Create beautiful and functional user interfaces",
			Duration:       "3 months",
			Fee:            decimal.NewFromInt(29999),
			ReferralReward: decimal.NewFromInt(1000),
			Active:         true,
		},
	}
}

func defaultTiers(validUntil time.Time) []models.RewardTier {
	return []models.RewardTier{
		{
			Tier: models.TierBronze, MinReferrals: 1, MaxReferrals: 3,
			RewardAmount: decimal.NewFromInt(1000), BonusPercentage: decimal.Zero,
			Description: "Entry level rewards",
			Conditions:  []string{"Must be first-time referrals", "Referee must complete enrollment"},
			Active:      true, ValidUntil: validUntil,
		},
		{
			Tier: models.TierSilver, MinReferrals: 4, MaxReferrals: 7,
			RewardAmount: decimal.NewFromInt(1500), BonusPercentage: decimal.NewFromInt(10),
			Description: "Intermediate rewards with bonus",
			Conditions:  []string{"Previous referrals must be successful", "10% bonus on base reward"},
			Active:      true, ValidUntil: validUntil,
		},
		{
			Tier: models.TierGold, MinReferrals: 8, MaxReferrals: 12,
			RewardAmount: decimal.NewFromInt(2000), BonusPercentage: decimal.NewFromInt(20),
			Description: "Advanced rewards with higher bonus",
			Conditions:  []string{"Maintain 50% conversion rate", "20% bonus on base reward"},
			Active:      true, ValidUntil: validUntil,
		},
		{
			Tier: models.TierPlatinum, MinReferrals: 13, MaxReferrals: 999999,
			RewardAmount: decimal.NewFromInt(2500), BonusPercentage: decimal.NewFromInt(30),
			Description: "Premium rewards with maximum benefits",
			Conditions:  []string{"VIP support", "30% bonus on base reward", "Special recognition"},
			Active:      true, ValidUntil: validUntil,
		},
	}
}

// SeedCatalog inserts the default courses and reward tiers, skipping any
// that already exist by name.
func SeedCatalog(db *gorm.DB, now time.Time) error {
	courses, tiers, err := seedCatalog(db, now)
	if err != nil {
		return err
	}

	logging.Logger.Info("✅ Catalog seeded", zap.Int64("courses", courses), zap.Int64("tiers", tiers))
	return nil
}

// seedCatalog returns how many courses and tiers were actually inserted.
func seedCatalog(db *gorm.DB, now time.Time) (int64, int64, error) {
	courses := defaultCourses()
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&courses)
	if result.Error != nil {
		return 0, 0, fmt.Errorf("failed to seed courses: %w", result.Error)
	}
	insertedCourses := result.RowsAffected

	tiers := defaultTiers(now.AddDate(1, 0, 0))
	result = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tiers)
	if result.Error != nil {
		return 0, 0, fmt.Errorf("failed to seed reward tiers: %w", result.Error)
	}

	return insertedCourses, result.RowsAffected, nil
}
