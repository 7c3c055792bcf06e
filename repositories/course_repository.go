package repositories

import (
	"context"

	"github.com/anjiri1684/referral_rewards/apperrors"
	"github.com/anjiri1684/referral_rewards/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	return translate(r.db.WithContext(ctx).Create(course).Error, "Course")
}

func (r *CourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Course")
	}
	return &course, nil
}

// ExistsByName ignores the course identified by excludeID, so a rename check
// does not collide with the course being renamed.
func (r *CourseRepository) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "Course")
	}
	return count > 0, nil
}

func (r *CourseRepository) ListActive(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("name asc").Find(&courses).Error; err != nil {
		return nil, translate(err, "Course")
	}
	return courses, nil
}

func (r *CourseRepository) ListAll(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).Order("name asc").Find(&courses).Error; err != nil {
		return nil, translate(err, "Course")
	}
	return courses, nil
}

func (r *CourseRepository) Save(ctx context.Context, course *models.Course) error {
	return translate(r.db.WithContext(ctx).Save(course).Error, "Course")
}

func (r *CourseRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return translate(result.Error, "Course")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Course")
	}
	return nil
}
