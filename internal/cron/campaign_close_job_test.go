package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adrianvasquez/fundhub-backend/pkg/logger"
	"gorm.io/gorm"
)

type fakeCampaignCloseRepo struct {
	succeeded int64
	failed    int64
	err       error
	called    int
	lastNow   time.Time
}

func (f *fakeCampaignCloseRepo) CloseOutEnded(ctx context.Context, tx *gorm.DB, now time.Time) (int64, int64, error) {
	f.called++
	f.lastNow = now
	if f.err != nil {
		return 0, 0, f.err
	}
	return f.succeeded, f.failed, nil
}

type closeFakeTxRunner struct{}

func (closeFakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newCampaignCloseJob(t *testing.T, repo *fakeCampaignCloseRepo) *campaignCloseJob {
	t.Helper()
	jobIface, err := NewCampaignCloseJob(CampaignCloseJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		DB:         closeFakeTxRunner{},
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("NewCampaignCloseJob: %v", err)
	}
	job, ok := jobIface.(*campaignCloseJob)
	if !ok {
		t.Fatalf("expected campaignCloseJob, got %T", jobIface)
	}
	return job
}

func TestCampaignCloseJobSettlesEndedCampaigns(t *testing.T) {
	now := time.Date(2026, 3, 15, 6, 0, 0, 0, time.UTC)
	repo := &fakeCampaignCloseRepo{succeeded: 3, failed: 2}
	job := newCampaignCloseJob(t, repo)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if repo.called != 1 {
		t.Fatalf("expected repo called once, got %d", repo.called)
	}
	if !repo.lastNow.Equal(now) {
		t.Fatalf("expected cutoff %s, got %s", now, repo.lastNow)
	}
}

func TestCampaignCloseJobPropagatesErrors(t *testing.T) {
	repo := &fakeCampaignCloseRepo{err: errors.New("boom")}
	job := newCampaignCloseJob(t, repo)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestCampaignCloseJobRequiresDependencies(t *testing.T) {
	_, err := NewCampaignCloseJob(CampaignCloseJobParams{})
	if err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}
