package services

import (
	"context"
	"strings"

	"github.com/anjiri1684/referral_rewards/apperrors"
	"github.com/anjiri1684/referral_rewards/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CourseInput struct {
	Name           string
	Description    string
	Duration       string
	Fee            decimal.Decimal
	ReferralReward *decimal.Decimal
	ImageURL       *string
}

type CoursePatch struct {
	Name           *string
	Description    *string
	Duration       *string
	Fee            *decimal.Decimal
	ReferralReward *decimal.Decimal
	ImageURL       *string
	Active         *bool
}

type CourseService struct {
	courses   CourseStore
	referrals CourseReferralReader
}

func NewCourseService(courses CourseStore, referrals CourseReferralReader) *CourseService {
	return &CourseService{courses: courses, referrals: referrals}
}

func (s *CourseService) ListActiveCourses(ctx context.Context) ([]models.Course, error) {
	return s.courses.ListActive(ctx)
}

func (s *CourseService) GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return s.courses.FindByID(ctx, id)
}

func (s *CourseService) CreateCourse(ctx context.Context, input CourseInput) (*models.Course, error) {
	course := &models.Course{
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		Duration:       input.Duration,
		Fee:            input.Fee,
		ReferralReward: models.DefaultReferralReward,
		ImageURL:       input.ImageURL,
		Active:         true,
	}
	if input.ReferralReward != nil {
		course.ReferralReward = *input.ReferralReward
	}

	if err := validateCourse(course); err != nil {
		return nil, err
	}

	exists, err := s.courses.ExistsByName(ctx, course.Name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict("Course with this name already exists")
	}

	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) UpdateCourse(ctx context.Context, id uuid.UUID, patch CoursePatch) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		course.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		course.Description = *patch.Description
	}
	if patch.Duration != nil {
		course.Duration = *patch.Duration
	}
	if patch.Fee != nil {
		course.Fee = *patch.Fee
	}
	if patch.ReferralReward != nil {
		course.ReferralReward = *patch.ReferralReward
	}
	if patch.ImageURL != nil {
		course.ImageURL = patch.ImageURL
	}
	if patch.Active != nil {
		course.Active = *patch.Active
	}

	if err := validateCourse(course); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		exists, err := s.courses.ExistsByName(ctx, course.Name, course.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.Conflict("Course with this name already exists")
		}
	}

	if err := s.courses.Save(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeactivateCourse(ctx context.Context, id uuid.UUID) error {
	return s.courses.Deactivate(ctx, id)
}

// ReferralStats groups every referral by course. Courses without referrals
// are reported with zero counts; activeReferrals counts pending referrals.
func (s *CourseService) ReferralStats(ctx context.Context) ([]models.CourseReferralStats, error) {
	courses, err := s.courses.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	referrals, err := s.referrals.ListCourseStatuses(ctx)
	if err != nil {
		return nil, err
	}

	type counts struct{ total, pending int }
	byCourse := make(map[uuid.UUID]*counts, len(courses))
	for _, referral := range referrals {
		c, ok := byCourse[referral.CourseID]
		if !ok {
			c = &counts{}
			byCourse[referral.CourseID] = c
		}
		c.total++
		if referral.Status == models.ReferralStatusPending {
			c.pending++
		}
	}

	stats := make([]models.CourseReferralStats, 0, len(courses))
	for _, course := range courses {
		stat := models.CourseReferralStats{CourseID: course.ID, Name: course.Name}
		if c, ok := byCourse[course.ID]; ok {
			stat.ReferralCount = c.total
			stat.ActiveReferrals = c.pending
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

func validateCourse(course *models.Course) error {
	if course.Name == "" {
		return apperrors.Validation("Course name is required")
	}
	if course.Fee.IsNegative() {
		return apperrors.Validation("Course fee cannot be negative")
	}
	if course.ReferralReward.IsNegative() {
		return apperrors.Validation("Referral reward cannot be negative")
	}
	return nil
}
