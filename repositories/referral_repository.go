package repositories

import (
	"context"

	"github.com/anjiri1684/referral_rewards/apperrors"
	"github.com/anjiri1684/referral_rewards/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

func (r *ReferralRepository) Create(ctx context.Context, referral *models.Referral) error {
	err := r.db.WithContext(ctx).Omit("Course").Create(referral).Error
	if err != nil {
		if apperrors.IsConflict(translate(err, "Referral")) {
			return apperrors.Conflict("This person has already been referred")
		}
		return translate(err, "Referral")
	}
	return nil
}

func (r *ReferralRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Referral, error) {
	var referral models.Referral
	if err := r.db.WithContext(ctx).Preload("Course").First(&referral, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Referral")
	}
	return &referral, nil
}

// ExistsByRefereeEmail matches the stored email exactly.
func (r *ReferralRepository) ExistsByRefereeEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Referral{}).
		Where("referee_email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "Referral")
	}
	return count > 0, nil
}

func (r *ReferralRepository) ListByReferrer(ctx context.Context, email string) ([]models.Referral, error) {
	var referrals []models.Referral
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("referrer_email = ?", email).
		Order("created_at desc").
		Find(&referrals).Error
	if err != nil {
		return nil, translate(err, "Referral")
	}
	return referrals, nil
}

func (r *ReferralRepository) ListCompletedByReferrer(ctx context.Context, email string) ([]models.Referral, error) {
	var referrals []models.Referral
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("referrer_email = ? AND status = ?", email, models.ReferralStatusCompleted).
		Order("created_at asc").
		Find(&referrals).Error
	if err != nil {
		return nil, translate(err, "Referral")
	}
	return referrals, nil
}

// UpdateStatus applies the status and, for completed, the reward claim in a
// single UPDATE, then returns the fresh record.
func (r *ReferralRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReferralStatus) (*models.Referral, error) {
	updates := map[string]interface{}{"status": status}
	if status == models.ReferralStatusCompleted {
		updates["reward_claimed"] = true
	}

	result := r.db.WithContext(ctx).Model(&models.Referral{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, translate(result.Error, "Referral")
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NotFound("Referral")
	}
	return r.FindByID(ctx, id)
}

func (r *ReferralRepository) CountByStatus(ctx context.Context, email string) ([]models.ReferralStatusCount, error) {
	counts := []models.ReferralStatusCount{}
	err := r.db.WithContext(ctx).
		Model(&models.Referral{}).
		Select("status, count(*) as count").
		Where("referrer_email = ?", email).
		Group("status").
		Order("status asc").
		Scan(&counts).Error
	if err != nil {
		return nil, translate(err, "Referral")
	}
	return counts, nil
}

// ListCourseStatuses returns every referral reduced to its course and status.
func (r *ReferralRepository) ListCourseStatuses(ctx context.Context) ([]models.Referral, error) {
	var referrals []models.Referral
	err := r.db.WithContext(ctx).
		Select("id", "course_id", "status").
		Find(&referrals).Error
	if err != nil {
		return nil, translate(err, "Referral")
	}
	return referrals, nil
}
