package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/adrianvasquez/fundhub-backend/pkg/logger"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type campaignCloseRepo interface {
	CloseOutEnded(ctx context.Context, tx *gorm.DB, now time.Time) (succeeded, failed int64, err error)
}

// CampaignCloseJobParams configure the campaign close-out job.
type CampaignCloseJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository campaignCloseRepo
}

// NewCampaignCloseJob builds the job that settles ended campaigns. Active
// campaigns past their end date move to successful when they reached their
// goal and to failed otherwise.
func NewCampaignCloseJob(params CampaignCloseJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("campaigns repository required")
	}
	return &campaignCloseJob{
		logg: params.Logger,
		db:   params.DB,
		repo: params.Repository,
		now:  time.Now,
	}, nil
}

type campaignCloseJob struct {
	logg *logger.Logger
	db   txRunner
	repo campaignCloseRepo
	now  func() time.Time
}

func (j *campaignCloseJob) Name() string { return "campaign-close" }

func (j *campaignCloseJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	var succeeded, failed int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		succeeded, failed, err = j.repo.CloseOutEnded(ctx, tx, now)
		return err
	})
	if err != nil {
		return fmt.Errorf("campaign close-out: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"as_of":      now,
		"successful": succeeded,
		"failed":     failed,
	})
	j.logg.Info(logCtx, "campaign close-out complete")
	return nil
}
