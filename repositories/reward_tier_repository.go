package repositories

import (
	"context"
	"time"

	"github.com/anjiri1684/referral_rewards/apperrors"
	"github.com/anjiri1684/referral_rewards/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RewardTierRepository struct {
	db *gorm.DB
}

func NewRewardTierRepository(db *gorm.DB) *RewardTierRepository {
	return &RewardTierRepository{db: db}
}

func (r *RewardTierRepository) Create(ctx context.Context, tier *models.RewardTier) error {
	return translate(r.db.WithContext(ctx).Create(tier).Error, "Reward tier")
}

func (r *RewardTierRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.RewardTier, error) {
	var tier models.RewardTier
	if err := r.db.WithContext(ctx).First(&tier, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Reward tier")
	}
	return &tier, nil
}

func (r *RewardTierRepository) ExistsByTier(ctx context.Context, name models.TierName, excludeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RewardTier{}).
		Where("tier = ? AND id <> ?", name, excludeID).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "Reward tier")
	}
	return count > 0, nil
}

// ListActive returns active tiers valid after now, ascending by minReferrals.
// Creation order breaks ties between overlapping tiers.
func (r *RewardTierRepository) ListActive(ctx context.Context, now time.Time) ([]models.RewardTier, error) {
	var tiers []models.RewardTier
	err := r.db.WithContext(ctx).
		Where("active = ? AND valid_until > ?", true, now.UTC()).
		Order("min_referrals asc").
		Order("created_at asc").
		Find(&tiers).Error
	if err != nil {
		return nil, translate(err, "Reward tier")
	}
	return tiers, nil
}

func (r *RewardTierRepository) Save(ctx context.Context, tier *models.RewardTier) error {
	return translate(r.db.WithContext(ctx).Save(tier).Error, "Reward tier")
}

func (r *RewardTierRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.RewardTier{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return translate(result.Error, "Reward tier")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Reward tier")
	}
	return nil
}

// DeactivateExpired flips active off for tiers whose validity ended at or before now.
func (r *RewardTierRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.RewardTier{}).
		Where("active = ? AND valid_until <= ?", true, now.UTC()).
		Update("active", false)
	if result.Error != nil {
		return 0, translate(result.Error, "Reward tier")
	}
	return result.RowsAffected, nil
}
