package services

import (
	"context"
	"time"

	"github.com/anjiri1684/referral_rewards/models"
	"github.com/google/uuid"
)

type CourseFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type CourseStore interface {
	CourseFinder
	Create(ctx context.Context, course *models.Course) error
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
	ListActive(ctx context.Context) ([]models.Course, error)
	ListAll(ctx context.Context) ([]models.Course, error)
	Save(ctx context.Context, course *models.Course) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type ReferralStore interface {
	Create(ctx context.Context, referral *models.Referral) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Referral, error)
	ExistsByRefereeEmail(ctx context.Context, email string) (bool, error)
	ListByReferrer(ctx context.Context, email string) ([]models.Referral, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReferralStatus) (*models.Referral, error)
	CountByStatus(ctx context.Context, email string) ([]models.ReferralStatusCount, error)
}

type CompletedReferralReader interface {
	ListCompletedByReferrer(ctx context.Context, email string) ([]models.Referral, error)
}

type CourseReferralReader interface {
	ListCourseStatuses(ctx context.Context) ([]models.Referral, error)
}

type ActiveTierReader interface {
	ListActive(ctx context.Context, now time.Time) ([]models.RewardTier, error)
}

type TierStore interface {
	ActiveTierReader
	Create(ctx context.Context, tier *models.RewardTier) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.RewardTier, error)
	ExistsByTier(ctx context.Context, name models.TierName, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, tier *models.RewardTier) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type ReferralEventPublisher interface {
	PublishReferral(referral models.Referral)
}
