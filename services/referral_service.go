package services

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/anjiri1684/referral_rewards/apperrors"
	"github.com/anjiri1684/referral_rewards/logging"
	"github.com/anjiri1684/referral_rewards/metrics"
	"github.com/anjiri1684/referral_rewards/models"
	"github.com/anjiri1684/referral_rewards/notifications"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const completionEmailTimeout = 15 * time.Second

type ReferralService struct {
	referrals ReferralStore
	courses   CourseFinder
	mailer    notifications.Mailer
	events    ReferralEventPublisher
}

func NewReferralService(referrals ReferralStore, courses CourseFinder, mailer notifications.Mailer, events ReferralEventPublisher) *ReferralService {
	if mailer == nil {
		mailer = notifications.NoopMailer{}
	}
	return &ReferralService{referrals: referrals, courses: courses, mailer: mailer, events: events}
}

// CreateReferral records a pending referral. The course must exist but need
// not be active. A referee email already on file is rejected with a
// conflict; the unique index on referee_email closes the window between the
// check and the insert.
func (s *ReferralService) CreateReferral(ctx context.Context, referrer, referee models.Contact, courseID uuid.UUID) (*models.Referral, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	exists, err := s.referrals.ExistsByRefereeEmail(ctx, referee.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict("This person has already been referred")
	}

	referral := &models.Referral{
		Referrer:      referrer,
		Referee:       referee,
		CourseID:      course.ID,
		Status:        models.ReferralStatusPending,
		RewardClaimed: false,
	}
	if err := s.referrals.Create(ctx, referral); err != nil {
		return nil, err
	}
	referral.Course = course

	metrics.RecordReferralCreated()
	logging.Logger.Info("✅ Referral created",
		zap.String("referralId", referral.ID.String()),
		zap.String("referrer", referrer.Email),
		zap.String("course", course.Name))
	return referral, nil
}

// SetStatus moves a referral to any of the three statuses. Completing a
// referral marks its reward claimed; other statuses leave the flag alone.
// The referrer is e-mailed only on the transition into completed.
func (s *ReferralService) SetStatus(ctx context.Context, id uuid.UUID, status models.ReferralStatus) (*models.Referral, error) {
	if !status.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("Status must be one of pending, completed or cancelled, got %q", status))
	}

	current, err := s.referrals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := current.Status

	referral, err := s.referrals.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	metrics.RecordStatusChange(string(status))
	if s.events != nil {
		s.events.PublishReferral(*referral)
	}
	if status == models.ReferralStatusCompleted && previous != models.ReferralStatusCompleted {
		go s.notifyReferrer(*referral)
	}
	return referral, nil
}

func (s *ReferralService) ListByReferrer(ctx context.Context, email string) ([]models.Referral, error) {
	return s.referrals.ListByReferrer(ctx, email)
}

func (s *ReferralService) StatsByReferrer(ctx context.Context, email string) ([]models.ReferralStatusCount, error) {
	return s.referrals.CountByStatus(ctx, email)
}

func (s *ReferralService) notifyReferrer(referral models.Referral) {
	ctx, cancel := context.WithTimeout(context.Background(), completionEmailTimeout)
	defer cancel()

	courseName := "your referred course"
	if referral.Course != nil {
		courseName = referral.Course.Name
	}

	body := fmt.Sprintf(
		"<h1>Congratulations, %s!</h1><p>%s has completed enrollment in %s. Your referral reward has been unlocked.</p>",
		template.HTMLEscapeString(referral.Referrer.Name),
		template.HTMLEscapeString(referral.Referee.Name),
		template.HTMLEscapeString(courseName),
	)

	err := s.mailer.SendEmail(ctx, referral.Referrer.Name, referral.Referrer.Email, "You've Earned a Referral Reward!", body)
	if err != nil {
		logging.Logger.Error("🔥 Error sending referral completion email",
			zap.String("referralId", referral.ID.String()), zap.Error(err))
	}
}
