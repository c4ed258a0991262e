package stats

import (
	"context"

	"github.com/adrianvasquez/fundhub-backend/pkg/db/models"
	"github.com/adrianvasquez/fundhub-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository answers the aggregate platform queries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CampaignTotals describes the active campaign population in one scan.
type CampaignTotals struct {
	TotalRaised     decimal.Decimal
	ActiveCampaigns int64
	FundedCount     int64
}

// ActiveCampaignTotals sums the running totals of active campaigns and counts
// how many of them have reached their goal.
func (r *Repository) ActiveCampaignTotals(ctx context.Context) (CampaignTotals, error) {
	var totals CampaignTotals
	err := r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Select(
			"COALESCE(SUM(current_amount), 0) AS total_raised, " +
				"COUNT(*) AS active_campaigns, " +
				"COALESCE(SUM(CASE WHEN current_amount >= goal_amount THEN 1 ELSE 0 END), 0) AS funded_count",
		).
		Where("status = ?", enums.CampaignStatusActive).
		Scan(&totals).Error
	return totals, err
}

// DistinctBackers counts every user who has pledged at least once.
func (r *Repository) DistinctBackers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Pledge{}).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}
