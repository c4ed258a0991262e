package stats

import "github.com/shopspring/decimal"

// PlatformStatsDTO is the public landing-page snapshot of the platform.
// Figures cover active campaigns only, except TotalBackers which counts
// every distinct user who has ever pledged.
type PlatformStatsDTO struct {
	TotalRaised     decimal.Decimal `json:"total_raised"`
	ActiveCampaigns int64           `json:"active_campaigns"`
	FundedCount     int64           `json:"funded_count"`
	SuccessRate     int             `json:"success_rate"`
	TotalBackers    int64           `json:"total_backers"`
}
