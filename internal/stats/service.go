package stats

import (
	"context"
	"fmt"
	"math"

	pkgerrors "github.com/adrianvasquez/fundhub-backend/pkg/errors"
)

type statsRepository interface {
	ActiveCampaignTotals(ctx context.Context) (CampaignTotals, error)
	DistinctBackers(ctx context.Context) (int64, error)
}

// Service exposes the public platform stats.
type Service interface {
	PlatformStats(ctx context.Context) (*PlatformStatsDTO, error)
}

type service struct {
	repo statsRepository
}

// NewService builds a stats service with the provided dependencies.
func NewService(repo statsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stats repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) PlatformStats(ctx context.Context) (*PlatformStatsDTO, error) {
	totals, err := s.repo.ActiveCampaignTotals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum campaigns")
	}
	backers, err := s.repo.DistinctBackers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count backers")
	}

	successRate := 0
	if totals.ActiveCampaigns > 0 {
		successRate = int(math.Round(float64(totals.FundedCount) / float64(totals.ActiveCampaigns) * 100))
	}

	return &PlatformStatsDTO{
		TotalRaised:     totals.TotalRaised,
		ActiveCampaigns: totals.ActiveCampaigns,
		FundedCount:     totals.FundedCount,
		SuccessRate:     successRate,
		TotalBackers:    backers,
	}, nil
}
