package jobs

import (
	"context"
	"time"

	"github.com/anjiri1684/referral_rewards/logging"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 30 * time.Second

type TierExpirer interface {
	ExpireTiers(ctx context.Context, now time.Time) (int64, error)
}

// TierExpiryJob switches off reward tiers whose validity window has closed.
type TierExpiryJob struct {
	tiers TierExpirer
	now   func() time.Time
}

func NewTierExpiryJob(tiers TierExpirer) *TierExpiryJob {
	return &TierExpiryJob{tiers: tiers, now: time.Now}
}

func (j *TierExpiryJob) Run() {
	logging.Logger.Debug("Running job: ExpireRewardTiers")

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	expired, err := j.tiers.ExpireTiers(ctx, j.now())
	if err != nil {
		logging.Logger.Error("Error expiring reward tiers", zap.Error(err))
		return
	}
	if expired == 0 {
		return
	}

	logging.Logger.Info("Deactivated expired reward tiers", zap.Int64("count", expired))
}

// Schedule registers the job on c. It does not start c.
func Schedule(c *cron.Cron, spec string, job *TierExpiryJob) (cron.EntryID, error) {
	return c.AddJob(spec, job)
}
