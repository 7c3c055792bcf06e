package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/referral_rewards/apperrors"
	"github.com/anjiri1684/referral_rewards/database"
	"github.com/anjiri1684/referral_rewards/models"
	"github.com/anjiri1684/referral_rewards/repositories"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testStores struct {
	db        *gorm.DB
	courses   *repositories.CourseRepository
	referrals *repositories.ReferralRepository
	tiers     *repositories.RewardTierRepository
}

func setupStores(t *testing.T) testStores {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), database.Config())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return testStores{
		db:        db,
		courses:   repositories.NewCourseRepository(db),
		referrals: repositories.NewReferralRepository(db),
		tiers:     repositories.NewRewardTierRepository(db),
	}
}

func fakeContact() models.Contact {
	return models.Contact{
		Name:  gofakeit.Name(),
		Email: gofakeit.Email(),
		Phone: "+9198" + gofakeit.Numerify("########"),
	}
}

type sentEmail struct {
	toName, toEmail, subject, body string
}

type recordingMailer struct {
	sent chan sentEmail
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{sent: make(chan sentEmail, 8)}
}

func (m *recordingMailer) SendEmail(_ context.Context, toName, toEmail, subject, body string) error {
	m.sent <- sentEmail{toName: toName, toEmail: toEmail, subject: subject, body: body}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Referral
}

func (p *recordingPublisher) PublishReferral(referral models.Referral) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, referral)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func countReferrals(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Referral{}).Count(&count).Error)
	return count
}

func TestReferralService(t *testing.T) {
	stores := setupStores(t)
	ctx := context.Background()
	mailer := newRecordingMailer()
	publisher := &recordingPublisher{}
	service := NewReferralService(stores.referrals, stores.courses, mailer, publisher)

	course := &models.Course{Name: "Web Development", Fee: decimal.NewFromInt(50000), ReferralReward: decimal.NewFromInt(1000), Active: true}
	require.NoError(t, stores.courses.Create(ctx, course))

	referrer := fakeContact()
	referee := fakeContact()
	var created *models.Referral

	t.Run("Success - Creates pending referral", func(t *testing.T) {
		referral, err := service.CreateReferral(ctx, referrer, referee, course.ID)

		require.NoError(t, err)
		created = referral
		assert.Equal(t, models.ReferralStatusPending, referral.Status)
		assert.False(t, referral.RewardClaimed)
		require.NotNil(t, referral.Course)
		assert.Equal(t, course.Name, referral.Course.Name)
		assert.NotEqual(t, uuid.Nil, referral.ID)
	})

	t.Run("Failure - Unknown course", func(t *testing.T) {
		_, err := service.CreateReferral(ctx, referrer, fakeContact(), uuid.New())

		assert.True(t, apperrors.IsNotFound(err))
		assert.Equal(t, "Course not found", apperrors.Message(err))
	})

	t.Run("Failure - Duplicate referee leaves the ledger unchanged", func(t *testing.T) {
		before := countReferrals(t, stores.db)

		_, err := service.CreateReferral(ctx, fakeContact(), referee, course.ID)

		assert.True(t, apperrors.IsConflict(err))
		assert.Equal(t, before, countReferrals(t, stores.db))
	})

	t.Run("Success - Cancelling keeps the reward flag", func(t *testing.T) {
		referral, err := service.SetStatus(ctx, created.ID, models.ReferralStatusCancelled)

		require.NoError(t, err)
		assert.Equal(t, models.ReferralStatusCancelled, referral.Status)
		assert.False(t, referral.RewardClaimed)
	})

	t.Run("Success - Completing claims the reward and notifies", func(t *testing.T) {
		referral, err := service.SetStatus(ctx, created.ID, models.ReferralStatusCompleted)

		require.NoError(t, err)
		assert.Equal(t, models.ReferralStatusCompleted, referral.Status)
		assert.True(t, referral.RewardClaimed)

		select {
		case email := <-mailer.sent:
			assert.Equal(t, referrer.Email, email.toEmail)
			assert.Contains(t, email.body, course.Name)
		case <-time.After(2 * time.Second):
			t.Fatal("completion email not sent")
		}
		assert.Equal(t, 2, publisher.count())
	})

	t.Run("Success - Completing again does not e-mail twice", func(t *testing.T) {
		referral, err := service.SetStatus(ctx, created.ID, models.ReferralStatusCompleted)

		require.NoError(t, err)
		assert.Equal(t, models.ReferralStatusCompleted, referral.Status)
		select {
		case email := <-mailer.sent:
			t.Fatalf("unexpected second completion email to %s", email.toEmail)
		case <-time.After(200 * time.Millisecond):
		}
		assert.Equal(t, 3, publisher.count())
	})

	t.Run("Success - Moving away from completed keeps the reward flag", func(t *testing.T) {
		referral, err := service.SetStatus(ctx, created.ID, models.ReferralStatusCancelled)

		require.NoError(t, err)
		assert.True(t, referral.RewardClaimed)
	})

	t.Run("Failure - Unknown status", func(t *testing.T) {
		_, err := service.SetStatus(ctx, created.ID, models.ReferralStatus("archived"))

		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("Failure - Unknown referral", func(t *testing.T) {
		_, err := service.SetStatus(ctx, uuid.New(), models.ReferralStatusCompleted)

		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("Success - Lists and counts by referrer", func(t *testing.T) {
		_, err := service.CreateReferral(ctx, referrer, fakeContact(), course.ID)
		require.NoError(t, err)

		referrals, err := service.ListByReferrer(ctx, referrer.Email)
		require.NoError(t, err)
		assert.Len(t, referrals, 2)

		stats, err := service.StatsByReferrer(ctx, referrer.Email)
		require.NoError(t, err)
		assert.ElementsMatch(t, []models.ReferralStatusCount{
			{Status: models.ReferralStatusCancelled, Count: 1},
			{Status: models.ReferralStatusPending, Count: 1},
		}, stats)
	})
}

func TestTierCatalog(t *testing.T) {
	stores := setupStores(t)
	ctx := context.Background()
	catalog := NewTierCatalog(stores.tiers)
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	countTiers := func() int64 {
		var count int64
		require.NoError(t, stores.db.Model(&models.RewardTier{}).Count(&count).Error)
		return count
	}

	bronzeInput := TierInput{
		Tier:            models.TierBronze,
		MinReferrals:    1,
		MaxReferrals:    3,
		RewardAmount:    decimal.NewFromInt(500),
		Description:     "Start your referral journey",
		BonusPercentage: decimal.Zero,
		ValidUntil:      now.AddDate(1, 0, 0),
		Conditions:      []string{"Valid for all courses"},
	}
	var bronze *models.RewardTier

	t.Run("Success - Creates an active tier", func(t *testing.T) {
		tier, err := catalog.CreateTier(ctx, bronzeInput)

		require.NoError(t, err)
		bronze = tier
		assert.True(t, tier.Active)
		assert.Equal(t, int64(1), countTiers())
	})

	t.Run("Failure - Duplicate tier name", func(t *testing.T) {
		_, err := catalog.CreateTier(ctx, bronzeInput)

		assert.True(t, apperrors.IsConflict(err))
		assert.Equal(t, int64(1), countTiers())
	})

	t.Run("Failure - Minimum not below maximum leaves the catalog unchanged", func(t *testing.T) {
		for _, bounds := range [][2]int{{4, 4}, {7, 4}} {
			input := bronzeInput
			input.Tier = models.TierSilver
			input.MinReferrals, input.MaxReferrals = bounds[0], bounds[1]

			_, err := catalog.CreateTier(ctx, input)

			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, "Minimum referrals must be less than maximum referrals", apperrors.Message(err))
		}
		assert.Equal(t, int64(1), countTiers())
	})

	t.Run("Failure - Invalid name and bonus", func(t *testing.T) {
		input := bronzeInput
		input.Tier = "diamond"
		_, err := catalog.CreateTier(ctx, input)
		assert.True(t, apperrors.IsValidation(err))

		input = bronzeInput
		input.Tier = models.TierGold
		input.BonusPercentage = decimal.NewFromInt(101)
		_, err = catalog.CreateTier(ctx, input)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("Success - Lists only active unexpired tiers", func(t *testing.T) {
		silver := bronzeInput
		silver.Tier = models.TierSilver
		silver.MinReferrals, silver.MaxReferrals = 4, 7
		silver.BonusPercentage = decimal.NewFromInt(10)
		_, err := catalog.CreateTier(ctx, silver)
		require.NoError(t, err)

		gold := bronzeInput
		gold.Tier = models.TierGold
		gold.MinReferrals, gold.MaxReferrals = 8, 12
		gold.ValidUntil = now.Add(-time.Minute)
		_, err = catalog.CreateTier(ctx, gold)
		require.NoError(t, err)

		platinum := bronzeInput
		platinum.Tier = models.TierPlatinum
		platinum.MinReferrals, platinum.MaxReferrals = 13, 999999
		created, err := catalog.CreateTier(ctx, platinum)
		require.NoError(t, err)
		require.NoError(t, catalog.DeactivateTier(ctx, created.ID))

		tiers, err := catalog.ListActiveTiers(ctx, now)

		require.NoError(t, err)
		require.Len(t, tiers, 2)
		assert.Equal(t, models.TierBronze, tiers[0].Tier)
		assert.Equal(t, models.TierSilver, tiers[1].Tier)
	})

	t.Run("Success - Partial update keeps other fields", func(t *testing.T) {
		max := 2
		tier, err := catalog.UpdateTier(ctx, bronze.ID, TierPatch{MaxReferrals: &max})

		require.NoError(t, err)
		assert.Equal(t, 1, tier.MinReferrals)
		assert.Equal(t, 2, tier.MaxReferrals)
		assert.Equal(t, "Start your referral journey", tier.Description)
	})

	t.Run("Failure - Update revalidates the range", func(t *testing.T) {
		min := 5
		_, err := catalog.UpdateTier(ctx, bronze.ID, TierPatch{MinReferrals: &min})

		assert.True(t, apperrors.IsValidation(err))
		stored, err := stores.tiers.FindByID(ctx, bronze.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.MinReferrals)
	})

	t.Run("Failure - Rename onto an existing tier", func(t *testing.T) {
		silver := models.TierSilver
		_, err := catalog.UpdateTier(ctx, bronze.ID, TierPatch{Tier: &silver})

		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("Failure - Unknown tier", func(t *testing.T) {
		_, err := catalog.UpdateTier(ctx, uuid.New(), TierPatch{})
		assert.True(t, apperrors.IsNotFound(err))

		assert.True(t, apperrors.IsNotFound(catalog.DeactivateTier(ctx, uuid.New())))
	})

	t.Run("Success - Expires lapsed tiers", func(t *testing.T) {
		count, err := catalog.ExpireTiers(ctx, now)

		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestCourseService(t *testing.T) {
	stores := setupStores(t)
	ctx := context.Background()
	service := NewCourseService(stores.courses, stores.referrals)

	var web *models.Course

	t.Run("Success - Defaults the referral reward", func(t *testing.T) {
		course, err := service.CreateCourse(ctx, CourseInput{
			Name:        "Web Development",
			Description: "Full stack web development",
			Duration:    "6 months",
			Fee:         decimal.NewFromInt(50000),
		})

		require.NoError(t, err)
		web = course
		assert.True(t, course.Active)
		assert.True(t, course.ReferralReward.Equal(models.DefaultReferralReward))
	})

	t.Run("Failure - Duplicate name", func(t *testing.T) {
		_, err := service.CreateCourse(ctx, CourseInput{Name: "Web Development", Fee: decimal.NewFromInt(1)})

		assert.True(t, apperrors.IsConflict(err))
		assert.Equal(t, "Course with this name already exists", apperrors.Message(err))
	})

	t.Run("Failure - Missing name", func(t *testing.T) {
		_, err := service.CreateCourse(ctx, CourseInput{Name: "  "})

		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("Success - Update and deactivate", func(t *testing.T) {
		reward := decimal.NewFromInt(1500)
		course, err := service.UpdateCourse(ctx, web.ID, CoursePatch{ReferralReward: &reward})
		require.NoError(t, err)
		assert.True(t, course.ReferralReward.Equal(reward))
		assert.Equal(t, "6 months", course.Duration)

		other, err := service.CreateCourse(ctx, CourseInput{Name: "Data Science", Fee: decimal.NewFromInt(60000)})
		require.NoError(t, err)
		require.NoError(t, service.DeactivateCourse(ctx, other.ID))

		active, err := service.ListActiveCourses(ctx)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, web.ID, active[0].ID)

		_, err = service.GetCourse(ctx, other.ID)
		assert.NoError(t, err)
	})

	t.Run("Failure - Rename onto an existing course", func(t *testing.T) {
		name := "Data Science"
		_, err := service.UpdateCourse(ctx, web.ID, CoursePatch{Name: &name})

		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("Failure - Unknown course", func(t *testing.T) {
		_, err := service.GetCourse(ctx, uuid.New())

		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("Success - Referral stats per course", func(t *testing.T) {
		referrals := NewReferralService(stores.referrals, stores.courses, nil, nil)
		first, err := referrals.CreateReferral(ctx, fakeContact(), fakeContact(), web.ID)
		require.NoError(t, err)
		_, err = referrals.CreateReferral(ctx, fakeContact(), fakeContact(), web.ID)
		require.NoError(t, err)
		_, err = referrals.SetStatus(ctx, first.ID, models.ReferralStatusCompleted)
		require.NoError(t, err)

		stats, err := service.ReferralStats(ctx)

		require.NoError(t, err)
		require.Len(t, stats, 2)
		assert.Equal(t, "Data Science", stats[0].Name)
		assert.Equal(t, 0, stats[0].ReferralCount)
		assert.Equal(t, "Web Development", stats[1].Name)
		assert.Equal(t, 2, stats[1].ReferralCount)
		assert.Equal(t, 1, stats[1].ActiveReferrals)
	})
}

func TestRewardCalculatorWithStores(t *testing.T) {
	stores := setupStores(t)
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, database.SeedCatalog(stores.db, now))

	courses, err := stores.courses.ListActive(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, courses)

	referrals := NewReferralService(stores.referrals, stores.courses, nil, nil)
	calculator := NewRewardCalculator(stores.referrals, stores.tiers)
	referrer := fakeContact()

	t.Run("Success - Zero completed referrals", func(t *testing.T) {
		_, err := referrals.CreateReferral(ctx, referrer, fakeContact(), courses[0].ID)
		require.NoError(t, err)

		summary, err := calculator.CalculateRewards(ctx, referrer.Email, now)

		require.NoError(t, err)
		assert.Equal(t, 0, summary.ReferralCount)
		assert.True(t, summary.TotalReward.IsZero())
		assert.Nil(t, summary.CurrentTier)
		require.NotNil(t, summary.NextTier)
		assert.Equal(t, models.TierBronze, summary.NextTier.Tier)
	})

	t.Run("Success - Completed referrals reach silver", func(t *testing.T) {
		base := decimal.Zero
		for i := 0; i < 5; i++ {
			course := courses[i%len(courses)]
			referral, err := referrals.CreateReferral(ctx, referrer, fakeContact(), course.ID)
			require.NoError(t, err)
			_, err = referrals.SetStatus(ctx, referral.ID, models.ReferralStatusCompleted)
			require.NoError(t, err)
			base = base.Add(course.ReferralReward)
		}

		summary, err := calculator.CalculateRewards(ctx, referrer.Email, now)

		require.NoError(t, err)
		assert.Equal(t, 5, summary.ReferralCount)
		require.NotNil(t, summary.CurrentTier)
		assert.Equal(t, models.TierSilver, summary.CurrentTier.Tier)
		expected := base.Add(base.Mul(decimal.NewFromInt(10)).Div(decimal.NewFromInt(100))).Round(2)
		assert.True(t, expected.Equal(summary.TotalReward), "expected %s, got %s", expected, summary.TotalReward)
		for _, referral := range summary.CompletedReferrals {
			assert.NotNil(t, referral.Course)
		}
	})

	t.Run("Success - Expired catalog yields no tier", func(t *testing.T) {
		summary, err := calculator.CalculateRewards(ctx, referrer.Email, now.AddDate(2, 0, 0))

		require.NoError(t, err)
		assert.Nil(t, summary.CurrentTier)
		assert.Nil(t, summary.NextTier)
	})
}
